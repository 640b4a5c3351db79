package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"EsportsHub/internal/chain"
	"EsportsHub/internal/config"
	"EsportsHub/internal/interfaces"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// 测试动作使用的固定内容
const (
	testVideoHash         = "QmTestVideo123"
	testCourseURI         = "QmTestCourse123"
	testEventGame         = "Valorant"
	testEventDescription  = "Test prediction event for demonstration"
	testVideoCategory     = "Gaming"
	testVideoDescription  = "Test gaming video for demonstration"
	testCourseDescription = "Test gaming course for demonstration"
	testCourseDuration    = "2 hours"
	testItemDescription   = "Test marketplace item for demonstration"
	testItemType          = "Weapon Skin"
	testItemTokenID       = 1
)

// AdminService 部署信息与管理员测试动作，复用各业务 service
type AdminService struct {
	cfg         config.Config
	chain       interfaces.BlockchainAdapter
	market      *MarketService
	video       *VideoService
	course      *CourseService
	marketplace *MarketplaceService
	logger      *logrus.Logger
}

func NewAdminService(cfg config.Config, chain interfaces.BlockchainAdapter, market *MarketService, video *VideoService, course *CourseService, marketplace *MarketplaceService, logger *logrus.Logger) *AdminService {
	return &AdminService{
		cfg:         cfg,
		chain:       chain,
		market:      market,
		video:       video,
		course:      course,
		marketplace: marketplace,
		logger:      logger,
	}
}

// DeployInfo 部署一个合约所需的信息（实际部署由外部工具完成）
type DeployInfo struct {
	Message         string   `json:"message"`
	AdminAddress    string   `json:"adminAddress"`
	File            string   `json:"file"`
	ConstructorArgs []string `json:"constructorArgs"`
}

// DeploymentStatus 部署进度加适配器模式
type DeploymentStatus struct {
	chain.DeploymentStatus
	Mode string `json:"mode"`
}

// TestResult 管理员测试动作的结果；ID 为对应实体的本地 id
type TestResult struct {
	Message string `json:"message"`
	TxHash  string `json:"txHash"`
	ID      uint64 `json:"id,omitempty"`
}

// TestEventInput EndTime 为 unix 秒
type TestEventInput struct {
	Name     string
	IPFSHash string
	EndTime  int64
}

func (s *AdminService) DeployContract(name string) (*DeployInfo, error) {
	if name == "" {
		return nil, invalidf("Contract name required")
	}
	spec, ok := chain.FindContract(name, s.cfg.Admin.Address)
	if !ok {
		return nil, invalidf("Invalid contract name")
	}
	return &DeployInfo{
		Message:         fmt.Sprintf("Starting deployment of %s...", name),
		AdminAddress:    s.cfg.Admin.Address,
		File:            spec.File,
		ConstructorArgs: spec.ConstructorArgs,
	}, nil
}

func (s *AdminService) DeploymentStatus() DeploymentStatus {
	return DeploymentStatus{
		DeploymentStatus: chain.Status(s.cfg.Chain.Contracts),
		Mode:             s.chain.Mode(),
	}
}

func (s *AdminService) TestCreateEvent(ctx context.Context, in TestEventInput) (*TestResult, error) {
	ev, txHash, err := s.market.CreateEvent(ctx, CreateEventInput{
		ContractEventID: rand.Int64N(1000),
		Name:            in.Name,
		Description:     testEventDescription,
		Game:            testEventGame,
		IPFSHash:        in.IPFSHash,
		EndTime:         time.Unix(in.EndTime, 0).UTC(),
	})
	if err != nil {
		return nil, err
	}
	return &TestResult{
		Message: fmt.Sprintf("Betting event %q created successfully", in.Name),
		TxHash:  txHash,
		ID:      ev.ID,
	}, nil
}

func (s *AdminService) TestMintTokens(ctx context.Context, address string, amount decimal.Decimal) (*TestResult, error) {
	if address == "" {
		return nil, invalidf("address is required")
	}
	if !amount.IsPositive() {
		return nil, invalidf("amount must be positive")
	}
	txHash, err := s.chain.MintFanTokens(ctx, address, amount)
	if err != nil {
		return nil, err
	}
	return &TestResult{
		Message: fmt.Sprintf("%s FTK tokens minted to %s", amount.String(), address),
		TxHash:  txHash,
	}, nil
}

func (s *AdminService) TestUploadVideo(ctx context.Context, title, creator string) (*TestResult, error) {
	v, txHash, err := s.video.RegisterVideo(ctx, RegisterVideoInput{
		IPFSHash:    testVideoHash,
		Title:       title,
		Description: testVideoDescription,
		Category:    testVideoCategory,
		Creator:     creator,
	})
	if err != nil {
		return nil, err
	}
	return &TestResult{
		Message: fmt.Sprintf("Video %q uploaded successfully. Earned 0.01 CHZ reward!", title),
		TxHash:  txHash,
		ID:      v.ID,
	}, nil
}

// TestCreateCourse price 为 CHZ
func (s *AdminService) TestCreateCourse(ctx context.Context, title string, price decimal.Decimal, creator string) (*TestResult, error) {
	c, txHash, err := s.course.CreateCourse(ctx, CreateCourseInput{
		Title:       title,
		Description: testCourseDescription,
		Creator:     creator,
		Price:       price,
		IPFSURI:     testCourseURI,
		Duration:    testCourseDuration,
		Rating:      decimal.RequireFromString("4.8"),
	})
	if err != nil {
		return nil, err
	}
	return &TestResult{
		Message: fmt.Sprintf("Course NFT %q created successfully", title),
		TxHash:  txHash,
		ID:      c.ID,
	}, nil
}

// TestListItem price 为 CHZ
func (s *AdminService) TestListItem(ctx context.Context, name string, price decimal.Decimal, seller string) (*TestResult, error) {
	item, txHash, err := s.marketplace.ListItem(ctx, ListItemInput{
		TokenID:  testItemTokenID,
		Seller:   seller,
		Price:    price,
		ItemType: testItemType,
		Metadata: map[string]any{
			"name":        name,
			"description": testItemDescription,
		},
	})
	if err != nil {
		return nil, err
	}
	return &TestResult{
		Message: fmt.Sprintf("Item %q listed on marketplace for %s CHZ", name, price.String()),
		TxHash:  txHash,
		ID:      item.ID,
	}, nil
}
