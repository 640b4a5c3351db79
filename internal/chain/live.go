package chain

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"EsportsHub/internal/config"
	"EsportsHub/internal/interfaces"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrContractNotConfigured 目标合约地址未配置
var ErrContractNotConfigured = errors.New("contract address not configured")

const defaultGasLimit uint64 = 300000

// backend LiveAdapter 用到的 RPC 子集，*ethclient.Client 满足
type backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	Close()
}

type dialFunc func(ctx context.Context, rawurl string) (backend, error)

func dialEthclient(ctx context.Context, rawurl string) (backend, error) {
	c, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LiveAdapter 用服务端私钥签名并发送合约交易。
// 不重试、不等待回执；返回 id 的调用在链上事件被索引前一律返回 0
type LiveAdapter struct {
	rpcURL    string
	chainID   *big.Int
	gasLimit  uint64
	key       *ecdsa.PrivateKey
	from      common.Address
	contracts map[string]string
	abis      map[string]abi.ABI
	dial      dialFunc
	logger    *logrus.Logger
}

var _ interfaces.BlockchainAdapter = (*LiveAdapter)(nil)

// NewLiveAdapter 解析私钥与 ABI；不在此处拨号
func NewLiveAdapter(cfg config.ChainConfig, logger *logrus.Logger) (*LiveAdapter, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc_url 必填")
	}
	key, err := parsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	abis := make(map[string]abi.ABI, len(contractABIs))
	for name, raw := range contractABIs {
		parsed, err := abi.JSON(strings.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parse %s abi: %w", name, err)
		}
		abis[name] = parsed
	}
	gasLimit := cfg.GasLimit
	if gasLimit == 0 {
		gasLimit = defaultGasLimit
	}
	var chainID *big.Int
	if cfg.ChainID > 0 {
		chainID = big.NewInt(cfg.ChainID)
	}
	return &LiveAdapter{
		rpcURL:   cfg.RPCURL,
		chainID:  chainID,
		gasLimit: gasLimit,
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		contracts: map[string]string{
			ContractPredictionMarket: cfg.Contracts.PredictionMarket,
			ContractFanTokenDAO:      cfg.Contracts.FanTokenDAO,
			ContractSkillShowcase:    cfg.Contracts.SkillShowcase,
			ContractCourseNFT:        cfg.Contracts.CourseNFT,
			ContractMarketplace:      cfg.Contracts.Marketplace,
		},
		abis:   abis,
		dial:   dialEthclient,
		logger: logger,
	}, nil
}

func parsePrivateKey(keyHex string) (*ecdsa.PrivateKey, error) {
	keyHex = strings.TrimPrefix(strings.TrimSpace(keyHex), "0x")
	if keyHex == "" {
		return nil, fmt.Errorf("private_key 必填")
	}
	keyBuf, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	key, err := crypto.ToECDSA(keyBuf)
	if err != nil {
		return nil, fmt.Errorf("to ecdsa: %w", err)
	}
	return key, nil
}

func (a *LiveAdapter) Mode() string { return interfaces.ModeLive }

// From 签名账户地址
func (a *LiveAdapter) From() common.Address { return a.from }

func (a *LiveAdapter) contractAddress(contract string) (common.Address, error) {
	addr := a.contracts[contract]
	if addr == "" {
		return common.Address{}, fmt.Errorf("%s: %w", contract, ErrContractNotConfigured)
	}
	if !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("%s 地址非法: %s", contract, addr)
	}
	return common.HexToAddress(addr), nil
}

// transact 打包、签名（legacy tx + EIP-155）并发送，返回交易哈希
func (a *LiveAdapter) transact(ctx context.Context, contract string, value *big.Int, method string, args ...interface{}) (string, error) {
	to, err := a.contractAddress(contract)
	if err != nil {
		return "", err
	}
	data, err := a.abis[contract].Pack(method, args...)
	if err != nil {
		return "", fmt.Errorf("pack %s: %w", method, err)
	}

	client, err := a.dial(ctx, a.rpcURL)
	if err != nil {
		return "", fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()

	chainID := a.chainID
	if chainID == nil {
		if chainID, err = client.ChainID(ctx); err != nil {
			return "", fmt.Errorf("chain id: %w", err)
		}
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("gas price: %w", err)
	}
	nonce, err := client.PendingNonceAt(ctx, a.from)
	if err != nil {
		return "", fmt.Errorf("pending nonce: %w", err)
	}
	if value == nil {
		value = big.NewInt(0)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      a.gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(chainID), a.key)
	if err != nil {
		return "", fmt.Errorf("sign tx: %w", err)
	}
	if err := client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send tx: %w", err)
	}
	hash := signed.Hash().Hex()
	a.logger.WithFields(logrus.Fields{
		"contract": contract,
		"method":   method,
		"tx_hash":  hash,
		"nonce":    nonce,
	}).Info("合约交易已发送")
	return hash, nil
}

func (a *LiveAdapter) CreateEvent(ctx context.Context, name, ipfsHash string, endTime time.Time) (string, error) {
	// 合约的 _description 字段存放元数据 hash
	return a.transact(ctx, ContractPredictionMarket, nil, "createEvent", name, ipfsHash, big.NewInt(endTime.Unix()))
}

func (a *LiveAdapter) PlaceBet(ctx context.Context, contractEventID int64, option int, amount decimal.Decimal) (string, error) {
	return a.transact(ctx, ContractPredictionMarket, ToWei(amount), "placeBet", big.NewInt(contractEventID), big.NewInt(int64(option)))
}

func (a *LiveAdapter) ResolveEvent(ctx context.Context, contractEventID int64, winningOption int) (string, error) {
	return a.transact(ctx, ContractPredictionMarket, nil, "resolveEvent", big.NewInt(contractEventID), big.NewInt(int64(winningOption)))
}

func (a *LiveAdapter) UploadVideo(ctx context.Context, ipfsHash, title, category string) (int64, string, error) {
	hash, err := a.transact(ctx, ContractSkillShowcase, nil, "uploadVideo", ipfsHash, title, category)
	return 0, hash, err
}

func (a *LiveAdapter) LikeVideo(ctx context.Context, contractVideoID int64) (string, error) {
	return a.transact(ctx, ContractSkillShowcase, nil, "likeVideo", big.NewInt(contractVideoID))
}

func (a *LiveAdapter) VerifyVideo(ctx context.Context, contractVideoID int64) (string, error) {
	return a.transact(ctx, ContractSkillShowcase, nil, "verifyVideo", big.NewInt(contractVideoID))
}

func (a *LiveAdapter) CreateProposal(ctx context.Context, description string) (int64, string, error) {
	hash, err := a.transact(ctx, ContractFanTokenDAO, nil, "createProposal", description)
	return 0, hash, err
}

func (a *LiveAdapter) Vote(ctx context.Context, contractProposalID int64, support bool) (string, error) {
	return a.transact(ctx, ContractFanTokenDAO, nil, "vote", big.NewInt(contractProposalID), support)
}

func (a *LiveAdapter) ExecuteProposal(ctx context.Context, contractProposalID int64) (string, error) {
	return a.transact(ctx, ContractFanTokenDAO, nil, "executeProposal", big.NewInt(contractProposalID))
}

func (a *LiveAdapter) MintFanTokens(ctx context.Context, to string, amount decimal.Decimal) (string, error) {
	if !common.IsHexAddress(to) {
		return "", fmt.Errorf("接收地址非法: %s", to)
	}
	return a.transact(ctx, ContractFanTokenDAO, nil, "mint", common.HexToAddress(to), ToWei(amount))
}

func (a *LiveAdapter) LazyMintCourse(ctx context.Context, uri string, priceWei decimal.Decimal) (int64, string, error) {
	hash, err := a.transact(ctx, ContractCourseNFT, nil, "lazyMint", uri, priceWei.Truncate(0).BigInt())
	return 0, hash, err
}

func (a *LiveAdapter) PurchaseCourse(ctx context.Context, tokenID int64, valueWei decimal.Decimal) (string, error) {
	return a.transact(ctx, ContractCourseNFT, valueWei.Truncate(0).BigInt(), "purchase", big.NewInt(tokenID))
}

func (a *LiveAdapter) ListItem(ctx context.Context, tokenID int64, priceWei decimal.Decimal) (int64, string, error) {
	hash, err := a.transact(ctx, ContractMarketplace, nil, "listItem", big.NewInt(tokenID), priceWei.Truncate(0).BigInt())
	return 0, hash, err
}

func (a *LiveAdapter) BuyItem(ctx context.Context, contractItemID int64, valueWei decimal.Decimal) (string, error) {
	return a.transact(ctx, ContractMarketplace, valueWei.Truncate(0).BigInt(), "buyItem", big.NewInt(contractItemID))
}

// ChzBalance 原生币余额
func (a *LiveAdapter) ChzBalance(ctx context.Context, address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("地址非法: %s", address)
	}
	client, err := a.dial(ctx, a.rpcURL)
	if err != nil {
		return "", fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()
	wei, err := client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return "", fmt.Errorf("balance at: %w", err)
	}
	return FormatBalance(wei), nil
}

// FanTokenBalance 通过 FanTokenDAO 的 ERC-20 balanceOf 读取
func (a *LiveAdapter) FanTokenBalance(ctx context.Context, address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("地址非法: %s", address)
	}
	to, err := a.contractAddress(ContractFanTokenDAO)
	if err != nil {
		return "", err
	}
	parsed := a.abis[ContractFanTokenDAO]
	data, err := parsed.Pack("balanceOf", common.HexToAddress(address))
	if err != nil {
		return "", err
	}
	client, err := a.dial(ctx, a.rpcURL)
	if err != nil {
		return "", fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()
	res, err := client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return "", fmt.Errorf("call balanceOf: %w", err)
	}
	if len(res) < 32 {
		return "", fmt.Errorf("balanceOf result length %d", len(res))
	}
	return FormatBalance(new(big.Int).SetBytes(res)), nil
}
