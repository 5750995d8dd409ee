package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
)

// ErrOpenIssueExists 同一发起者对同一目标已存在 DOING 事项
var ErrOpenIssueExists = errors.New("已存在进行中的待办事项")

// IssueRepository 单资产事项数据访问接口
type IssueRepository interface {
	// CreateIfNoOpen 检查并插入作为一个原子单元：
	// 事务内先锁定目标资产行，再检查 (initiator, asset) 是否已有 DOING 事项，
	// 无则插入；并发下撞上部分唯一索引时同样返回 ErrOpenIssueExists
	CreateIfNoOpen(ctx context.Context, issue *model.Issue) error
	GetByID(ctx context.Context, id uint) (*model.Issue, error)
	Update(ctx context.Context, issue *model.Issue) error
	Delete(ctx context.Context, id uint) error
	ListByHandler(ctx context.Context, handlerID uint, status string) ([]model.Issue, error)
	ListByInitiator(ctx context.Context, initiatorID uint) ([]model.Issue, error)
}

// issueRepo IssueRepository 的 GORM 实现
type issueRepo struct {
	db *gorm.DB
}

// NewIssueRepo 创建 IssueRepository 实例
func NewIssueRepo(db *gorm.DB) IssueRepository {
	return &issueRepo{db: db}
}

func (r *issueRepo) CreateIfNoOpen(ctx context.Context, issue *model.Issue) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 行锁串行化同一资产上的并发创建
		var asset model.Asset
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&asset, issue.AssetID).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&model.Issue{}).
			Where("initiator_id = ? AND asset_id = ? AND status = ?",
				issue.InitiatorID, issue.AssetID, model.IssueDoing).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrOpenIssueExists
		}
		return tx.Create(issue).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrOpenIssueExists
	}
	return err
}

func (r *issueRepo) GetByID(ctx context.Context, id uint) (*model.Issue, error) {
	var issue model.Issue
	err := r.db.WithContext(ctx).
		Preload("Initiator").
		Preload("Handler").
		Preload("Assignee").
		Preload("Asset").
		First(&issue, id).Error
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepo) Update(ctx context.Context, issue *model.Issue) error {
	return r.db.WithContext(ctx).Save(issue).Error
}

func (r *issueRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Issue{}, id).Error
}

func (r *issueRepo) ListByHandler(ctx context.Context, handlerID uint, status string) ([]model.Issue, error) {
	q := r.db.WithContext(ctx).
		Preload("Initiator").
		Preload("Assignee").
		Preload("Asset").
		Where("handler_id = ?", handlerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var issues []model.Issue
	err := q.Order("id ASC").Find(&issues).Error
	return issues, err
}

func (r *issueRepo) ListByInitiator(ctx context.Context, initiatorID uint) ([]model.Issue, error) {
	var issues []model.Issue
	err := r.db.WithContext(ctx).
		Preload("Initiator").
		Preload("Assignee").
		Preload("Asset").
		Where("initiator_id = ?", initiatorID).
		Order("id ASC").
		Find(&issues).Error
	return issues, err
}
