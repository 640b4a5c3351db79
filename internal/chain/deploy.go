package chain

import "EsportsHub/internal/config"

// ContractSpec 部署一个合约所需的源文件与构造参数
type ContractSpec struct {
	Name            string   `json:"name"`
	File            string   `json:"file"`
	ConstructorArgs []string `json:"constructorArgs"`
}

// Contracts 五个合约的部署描述，按部署顺序
func Contracts(admin string) []ContractSpec {
	return []ContractSpec{
		{Name: ContractPredictionMarket, File: "contracts/PredictionMarketSimple.sol", ConstructorArgs: []string{admin}},
		{Name: ContractFanTokenDAO, File: "contracts/FanTokenDAOSimple.sol", ConstructorArgs: []string{admin, "ChiliZ Fan Token", "FTK"}},
		{Name: ContractSkillShowcase, File: "contracts/SkillShowcaseSimple.sol", ConstructorArgs: []string{admin}},
		{Name: ContractCourseNFT, File: "contracts/CourseNFTSimple.sol", ConstructorArgs: []string{admin, "ChiliZ Course NFT", "COURSE", admin, "250"}},
		{Name: ContractMarketplace, File: "contracts/MarketplaceSimple.sol", ConstructorArgs: []string{admin}},
	}
}

// FindContract 按名称查找部署描述
func FindContract(name, admin string) (ContractSpec, bool) {
	for _, c := range Contracts(admin) {
		if c.Name == name {
			return c, true
		}
	}
	return ContractSpec{}, false
}

// DeploymentStatus 合约部署进度
type DeploymentStatus struct {
	Deployed   int               `json:"deployed"`
	Total      int               `json:"total"`
	Contracts  map[string]string `json:"contracts"`
	IsComplete bool              `json:"isComplete"`
}

// Status 按已配置的地址统计部署进度，未配置的合约不出现在 Contracts 中
func Status(cfg config.ContractsConfig) DeploymentStatus {
	all := cfg.Addresses()
	configured := make(map[string]string, len(all))
	for k, v := range all {
		if v != "" {
			configured[k] = v
		}
	}
	return DeploymentStatus{
		Deployed:   len(configured),
		Total:      len(all),
		Contracts:  configured,
		IsComplete: len(configured) == len(all),
	}
}
