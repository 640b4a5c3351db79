package chain

import (
	"EsportsHub/internal/config"
	"EsportsHub/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// NewAdapter 配置了签名私钥则使用 live，否则整个进程使用 mock
func NewAdapter(cfg config.ChainConfig, logger *logrus.Logger) (interfaces.BlockchainAdapter, error) {
	if cfg.PrivateKey == "" {
		logger.Info("未配置签名私钥，链上调用使用 mock 模式")
		return NewMockAdapter(logger), nil
	}
	live, err := NewLiveAdapter(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"rpc_url":  cfg.RPCURL,
		"chain_id": cfg.ChainID,
		"from":     live.From().Hex(),
	}).Info("链上调用使用 live 模式")
	return live, nil
}
