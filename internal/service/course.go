package service

import (
	"context"
	"fmt"

	"EsportsHub/internal/chain"
	"EsportsHub/internal/interfaces"
	"EsportsHub/internal/model"
	"EsportsHub/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CourseService 课程 NFT；价格以 wei 存储
type CourseService struct {
	courses repository.CourseRepository
	chain   interfaces.BlockchainAdapter
	logger  *logrus.Logger
}

func NewCourseService(store repository.Store, chain interfaces.BlockchainAdapter, logger *logrus.Logger) *CourseService {
	return &CourseService{courses: store, chain: chain, logger: logger}
}

// CreateCourseInput Price 为 CHZ
type CreateCourseInput struct {
	Title       string
	Description string
	Creator     string
	Price       decimal.Decimal
	IPFSURI     string
	Duration    string
	Rating      decimal.Decimal
}

func (s *CourseService) ListCourses(ctx context.Context) ([]*model.CourseNft, error) {
	return s.courses.ListCourses(ctx)
}

// CreateCourse lazyMint 后入库
func (s *CourseService) CreateCourse(ctx context.Context, in CreateCourseInput) (*model.CourseNft, string, error) {
	if in.Title == "" || in.Creator == "" {
		return nil, "", invalidf("title and creator are required")
	}
	if in.Price.IsNegative() {
		return nil, "", invalidf("price must not be negative")
	}
	priceWei := decimal.NewFromBigInt(chain.ToWei(in.Price), 0)
	tokenID, txHash, err := s.chain.LazyMintCourse(ctx, in.IPFSURI, priceWei)
	if err != nil {
		return nil, "", fmt.Errorf("链上铸造课程失败: %w", err)
	}
	c, err := s.courses.CreateCourse(ctx, &model.CourseNft{
		ContractTokenID: tokenID,
		Title:           in.Title,
		Description:     in.Description,
		Creator:         in.Creator,
		Price:           priceWei,
		IPFSURI:         in.IPFSURI,
		Duration:        in.Duration,
		Rating:          in.Rating,
	})
	if err != nil {
		return nil, "", err
	}
	s.logger.WithFields(logrus.Fields{"course_id": c.ID, "token_id": tokenID, "tx_hash": txHash}).Info("课程已铸造")
	return c, txHash, nil
}

// PurchaseCourse 不阻止重复购买：覆盖 purchaser 并累加 students
func (s *CourseService) PurchaseCourse(ctx context.Context, id uint64, purchaser string) (*model.CourseNft, string, error) {
	if purchaser == "" {
		return nil, "", invalidf("purchaser is required")
	}
	c, err := s.courses.GetCourse(ctx, id)
	if err != nil {
		return nil, "", err
	}
	txHash, err := s.chain.PurchaseCourse(ctx, c.ContractTokenID, c.Price)
	if err != nil {
		return nil, "", fmt.Errorf("链上购买课程失败: %w", err)
	}
	updated, err := s.courses.PurchaseCourse(ctx, id, purchaser)
	if err != nil {
		return nil, "", err
	}
	return updated, txHash, nil
}
