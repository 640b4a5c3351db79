package chain

// 合约名称（与部署脚本、deployment-status 一致）
const (
	ContractPredictionMarket = "PredictionMarket"
	ContractFanTokenDAO      = "FanTokenDAO"
	ContractSkillShowcase    = "SkillShowcase"
	ContractCourseNFT        = "CourseNFT"
	ContractMarketplace      = "Marketplace"
)

// 各合约最小 ABI，只包含服务端需要打包的函数
const predictionMarketABI = `[
	{"name":"createEvent","type":"function","stateMutability":"nonpayable","inputs":[
		{"name":"_name","type":"string"},
		{"name":"_description","type":"string"},
		{"name":"_endTime","type":"uint256"}
	],"outputs":[]},
	{"name":"placeBet","type":"function","stateMutability":"payable","inputs":[
		{"name":"_eventId","type":"uint256"},
		{"name":"_option","type":"uint256"}
	],"outputs":[]},
	{"name":"resolveEvent","type":"function","stateMutability":"nonpayable","inputs":[
		{"name":"_eventId","type":"uint256"},
		{"name":"_winningOption","type":"uint256"}
	],"outputs":[]}
]`

const fanTokenDAOABI = `[
	{"name":"mint","type":"function","stateMutability":"nonpayable","inputs":[
		{"name":"_to","type":"address"},
		{"name":"_amount","type":"uint256"}
	],"outputs":[]},
	{"name":"createProposal","type":"function","stateMutability":"nonpayable","inputs":[
		{"name":"_description","type":"string"}
	],"outputs":[]},
	{"name":"vote","type":"function","stateMutability":"nonpayable","inputs":[
		{"name":"_proposalId","type":"uint256"},
		{"name":"_support","type":"bool"}
	],"outputs":[]},
	{"name":"executeProposal","type":"function","stateMutability":"nonpayable","inputs":[
		{"name":"_proposalId","type":"uint256"}
	],"outputs":[]},
	{"name":"balanceOf","type":"function","stateMutability":"view","inputs":[
		{"name":"account","type":"address"}
	],"outputs":[{"name":"","type":"uint256"}]}
]`

const skillShowcaseABI = `[
	{"name":"fundContract","type":"function","stateMutability":"payable","inputs":[],"outputs":[]},
	{"name":"uploadVideo","type":"function","stateMutability":"nonpayable","inputs":[
		{"name":"_ipfsHash","type":"string"},
		{"name":"_title","type":"string"},
		{"name":"_category","type":"string"}
	],"outputs":[]},
	{"name":"likeVideo","type":"function","stateMutability":"nonpayable","inputs":[
		{"name":"_videoId","type":"uint256"}
	],"outputs":[]},
	{"name":"verifyVideo","type":"function","stateMutability":"nonpayable","inputs":[
		{"name":"_videoId","type":"uint256"}
	],"outputs":[]}
]`

const courseNFTABI = `[
	{"name":"lazyMint","type":"function","stateMutability":"nonpayable","inputs":[
		{"name":"_uri","type":"string"},
		{"name":"_price","type":"uint256"}
	],"outputs":[]},
	{"name":"purchase","type":"function","stateMutability":"payable","inputs":[
		{"name":"_tokenId","type":"uint256"}
	],"outputs":[]}
]`

const marketplaceABI = `[
	{"name":"listItem","type":"function","stateMutability":"nonpayable","inputs":[
		{"name":"_tokenId","type":"uint256"},
		{"name":"_price","type":"uint256"}
	],"outputs":[]},
	{"name":"buyItem","type":"function","stateMutability":"payable","inputs":[
		{"name":"_itemId","type":"uint256"}
	],"outputs":[]}
]`

var contractABIs = map[string]string{
	ContractPredictionMarket: predictionMarketABI,
	ContractFanTokenDAO:      fanTokenDAOABI,
	ContractSkillShowcase:    skillShowcaseABI,
	ContractCourseNFT:        courseNFTABI,
	ContractMarketplace:      marketplaceABI,
}
