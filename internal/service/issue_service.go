package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zhanghx0905/AssetManagementBackend/internal/dto"
	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
	"github.com/zhanghx0905/AssetManagementBackend/internal/repository"
)

// ── 事项模块业务错误 ──

var (
	ErrIssueNotFound = errors.New("待办事项不存在")
	// ErrIssueConflict 同一发起者对同一目标已有进行中的事项
	ErrIssueConflict = errors.New("对该目标已有进行中的事项")
	// ErrIssueFinished 终态事项不可再处理，重复处理返回此错误
	ErrIssueFinished = errors.New("事项已处理完毕")
	// ErrNotHandler 只有事项处理人能处理该事项
	ErrNotHandler = errors.New("无权处理该事项")
	// ErrAssetNotIdle 批准领用时选中的资产不是闲置状态
	ErrAssetNotIdle = errors.New("所选资产不是闲置状态")
	// ErrAssetWrongCategory 批准领用时选中的资产不属于申请的类别
	ErrAssetWrongCategory = errors.New("所选资产与申请类别不符")
	ErrUnknownIssueType   = errors.New("未知的事项类型")
	ErrAssetNotOperatable = errors.New("资产当前状态不允许该操作")
)

// IssueService 待办事项业务接口 — 维保/转移/退还/领用四类请求的
// 创建、处理与查询
type IssueService interface {
	// Require 按类别发起领用，处理人为发起者部门链上最近的资产管理员
	Require(ctx context.Context, req *dto.RequireRequest, callerID uint) error
	// Fix 发起维保：资产在创建事项时立即移交维保人并连同子资产转入维保状态
	Fix(ctx context.Context, req *dto.FixRequest, callerID uint) error
	// Transfer 发起转移，受让人确认后资产易主
	Transfer(ctx context.Context, req *dto.TransferRequest, callerID uint) error
	// Return 发起退还，资产管理员确认后资产回到其名下转为闲置
	Return(ctx context.Context, req *dto.ReturnRequest, callerID uint) error
	// Handle 处理待办事项，按 type_name 分发；维保结束无论成败资产都归还发起者
	Handle(ctx context.Context, req *dto.HandleRequest, callerID uint) error
	// PermitRequire 批准领用并把选中的闲置资产分配给发起者
	PermitRequire(ctx context.Context, req *dto.PermitRequireRequest, callerID uint) error
	// Delete 删除事项记录，任意状态均可删，不回滚已发生的资产变更
	Delete(ctx context.Context, req *dto.DeleteIssueRequest, callerID uint) error
	// Handling 调用者名下进行中的待办（作为处理人）
	Handling(ctx context.Context, callerID uint) ([]dto.IssueResponse, error)
	// Waiting 调用者发起的全部事项（任意状态）
	Waiting(ctx context.Context, callerID uint) ([]dto.IssueResponse, error)
	// RequireAssetList 审批领用时的备选闲置资产列表
	RequireAssetList(ctx context.Context, req *dto.RequireAssetListRequest, callerID uint) ([]dto.AssetResponse, error)
}

type issueService struct {
	repo     *repository.Repository
	assetSvc AssetService
	deptSvc  DepartmentService
	logger   *zap.Logger
}

// NewIssueService 创建 IssueService 实例
func NewIssueService(repo *repository.Repository, assetSvc AssetService, deptSvc DepartmentService, logger *zap.Logger) IssueService {
	return &issueService{repo: repo, assetSvc: assetSvc, deptSvc: deptSvc, logger: logger}
}

func (s *issueService) Require(ctx context.Context, req *dto.RequireRequest, callerID uint) error {
	caller, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	category, err := s.repo.Category.GetByName(ctx, req.Category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	handler, err := s.deptSvc.FindAssetManager(ctx, caller.DepartmentID)
	if err != nil {
		return err
	}

	issue := &model.RequireIssue{
		InitiatorID: caller.ID,
		HandlerID:   handler.ID,
		CategoryID:  category.ID,
		Reason:      req.Reason,
		Status:      model.IssueDoing,
	}
	if err := s.repo.RequireIssue.CreateIfNoOpen(ctx, issue); err != nil {
		if errors.Is(err, repository.ErrOpenIssueExists) {
			return ErrIssueConflict
		}
		s.logger.Error("创建领用事项失败", zap.Error(err))
		return err
	}
	s.logger.Info("发起领用",
		zap.String("initiator", caller.Username),
		zap.String("category", category.Name),
		zap.String("handler", handler.Username))
	return nil
}

func (s *issueService) Fix(ctx context.Context, req *dto.FixRequest, callerID uint) error {
	caller, asset, err := s.loadCallerAndAsset(ctx, callerID, req.AssetID)
	if err != nil {
		return err
	}
	if asset.Status == model.AssetRetired || asset.Status == model.AssetDeleted {
		return ErrAssetNotOperatable
	}
	maintainer, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	issue := &model.Issue{
		InitiatorID: caller.ID,
		HandlerID:   maintainer.ID,
		AssetID:     asset.ID,
		TypeName:    model.IssueMaintain,
		Status:      model.IssueDoing,
	}
	if err := s.repo.Issue.CreateIfNoOpen(ctx, issue); err != nil {
		if errors.Is(err, repository.ErrOpenIssueExists) {
			return ErrIssueConflict
		}
		s.logger.Error("创建维保事项失败", zap.Error(err))
		return err
	}

	// 维保在创建时即生效：资产连同子资产移交维保人并转入维保状态
	if err := s.assetSvc.SetStatusAndOwner(ctx, asset.ID,
		model.AssetInMaintain, maintainer.ID, "维保", caller.Username, true); err != nil {
		return err
	}
	s.logger.Info("发起维保",
		zap.String("initiator", caller.Username),
		zap.Uint("asset_id", asset.ID),
		zap.String("maintainer", maintainer.Username))
	return nil
}

func (s *issueService) Transfer(ctx context.Context, req *dto.TransferRequest, callerID uint) error {
	caller, asset, err := s.loadCallerAndAsset(ctx, callerID, req.AssetID)
	if err != nil {
		return err
	}
	if asset.Status != model.AssetInUse && asset.Status != model.AssetIdle {
		return ErrAssetNotOperatable
	}
	assignee, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// 转移由资产归属人所在部门的资产管理员审批
	owner, err := s.repo.User.GetByID(ctx, asset.OwnerID)
	if err != nil {
		return err
	}
	handler, err := s.deptSvc.FindAssetManager(ctx, owner.DepartmentID)
	if err != nil {
		return err
	}

	assigneeID := assignee.ID
	issue := &model.Issue{
		InitiatorID: caller.ID,
		HandlerID:   handler.ID,
		AssigneeID:  &assigneeID,
		AssetID:     asset.ID,
		TypeName:    model.IssueTransfer,
		Status:      model.IssueDoing,
	}
	if err := s.repo.Issue.CreateIfNoOpen(ctx, issue); err != nil {
		if errors.Is(err, repository.ErrOpenIssueExists) {
			return ErrIssueConflict
		}
		s.logger.Error("创建转移事项失败", zap.Error(err))
		return err
	}
	s.logger.Info("发起转移",
		zap.String("initiator", caller.Username),
		zap.Uint("asset_id", asset.ID),
		zap.String("assignee", assignee.Username))
	return nil
}

func (s *issueService) Return(ctx context.Context, req *dto.ReturnRequest, callerID uint) error {
	caller, asset, err := s.loadCallerAndAsset(ctx, callerID, req.AssetID)
	if err != nil {
		return err
	}
	if asset.Status != model.AssetInUse {
		return ErrAssetNotOperatable
	}

	owner, err := s.repo.User.GetByID(ctx, asset.OwnerID)
	if err != nil {
		return err
	}
	handler, err := s.deptSvc.FindAssetManager(ctx, owner.DepartmentID)
	if err != nil {
		return err
	}

	issue := &model.Issue{
		InitiatorID: caller.ID,
		HandlerID:   handler.ID,
		AssetID:     asset.ID,
		TypeName:    model.IssueReturn,
		Status:      model.IssueDoing,
	}
	if err := s.repo.Issue.CreateIfNoOpen(ctx, issue); err != nil {
		if errors.Is(err, repository.ErrOpenIssueExists) {
			return ErrIssueConflict
		}
		s.logger.Error("创建退还事项失败", zap.Error(err))
		return err
	}
	s.logger.Info("发起退还",
		zap.String("initiator", caller.Username),
		zap.Uint("asset_id", asset.ID))
	return nil
}

func (s *issueService) Handle(ctx context.Context, req *dto.HandleRequest, callerID uint) error {
	if req.TypeName == model.IssueRequire {
		return s.handleRequire(ctx, req, callerID)
	}
	switch req.TypeName {
	case model.IssueMaintain, model.IssueTransfer, model.IssueReturn:
	default:
		return ErrUnknownIssueType
	}

	issue, err := s.repo.Issue.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIssueNotFound
		}
		return err
	}
	if issue.TypeName != req.TypeName {
		return ErrIssueNotFound
	}
	if issue.Terminal() {
		return ErrIssueFinished
	}
	if issue.HandlerID != callerID {
		return ErrNotHandler
	}

	handler, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	success := *req.Success

	// 先落终态再改资产：资产变更失败时事项不会停留在 DOING，
	// 重试只会得到 ErrIssueFinished，不会二次改动资产
	issue.Status = model.IssueSuccess
	if !success {
		issue.Status = model.IssueFail
	}
	if err := s.repo.Issue.Update(ctx, issue); err != nil {
		s.logger.Error("更新事项失败", zap.Uint("id", issue.ID), zap.Error(err))
		return err
	}

	switch issue.TypeName {
	case model.IssueMaintain:
		// 维保结束无论成败，资产都归还发起者并恢复使用中
		if err := s.assetSvc.SetStatusAndOwner(ctx, issue.AssetID,
			model.AssetInUse, issue.InitiatorID, "维保结束", handler.Username, true); err != nil {
			return err
		}
	case model.IssueTransfer:
		if success {
			// 转移只改归属，状态保持原样
			if err := s.assetSvc.SetStatusAndOwner(ctx, issue.AssetID,
				"", *issue.AssigneeID, "转移", handler.Username, true); err != nil {
				return err
			}
		}
	case model.IssueReturn:
		if success {
			// 退还后资产回到处理人（资产管理员）名下转为闲置
			if err := s.assetSvc.SetStatusAndOwner(ctx, issue.AssetID,
				model.AssetIdle, issue.HandlerID, "退还", handler.Username, true); err != nil {
				return err
			}
		}
	}

	s.logger.Info("处理事项",
		zap.Uint("id", issue.ID),
		zap.String("type", issue.TypeName),
		zap.Bool("success", success))
	return nil
}

// handleRequire 领用事项的驳回走这里；批准分配走 PermitRequire
func (s *issueService) handleRequire(ctx context.Context, req *dto.HandleRequest, callerID uint) error {
	issue, err := s.repo.RequireIssue.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIssueNotFound
		}
		return err
	}
	if issue.Terminal() {
		return ErrIssueFinished
	}
	if issue.HandlerID != callerID {
		return ErrNotHandler
	}

	issue.Status = model.IssueSuccess
	if !*req.Success {
		issue.Status = model.IssueFail
	}
	if err := s.repo.RequireIssue.Update(ctx, issue); err != nil {
		s.logger.Error("更新领用事项失败", zap.Uint("id", issue.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *issueService) PermitRequire(ctx context.Context, req *dto.PermitRequireRequest, callerID uint) error {
	issue, err := s.repo.RequireIssue.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIssueNotFound
		}
		return err
	}
	if issue.Terminal() {
		return ErrIssueFinished
	}
	if issue.HandlerID != callerID {
		return ErrNotHandler
	}

	handler, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		return err
	}

	// 先整体校验，再逐个分配，避免分配一半发现非闲置
	for _, assetID := range req.AssetIDs {
		asset, err := s.assetSvc.GetByID(ctx, assetID)
		if err != nil {
			return err
		}
		if asset.Status != model.AssetIdle {
			return ErrAssetNotIdle
		}
		if asset.CategoryID != issue.CategoryID {
			return ErrAssetWrongCategory
		}
	}
	for _, assetID := range req.AssetIDs {
		if err := s.assetSvc.SetStatusAndOwner(ctx, assetID,
			model.AssetInUse, issue.InitiatorID, "领用", handler.Username, true); err != nil {
			return err
		}
	}

	if err := s.repo.RequireIssue.AppendAssets(ctx, issue.ID, req.AssetIDs); err != nil {
		s.logger.Error("记录分配资产失败", zap.Uint("id", issue.ID), zap.Error(err))
		return err
	}
	issue.Status = model.IssueSuccess
	if err := s.repo.RequireIssue.Update(ctx, issue); err != nil {
		s.logger.Error("更新领用事项失败", zap.Uint("id", issue.ID), zap.Error(err))
		return err
	}
	s.logger.Info("批准领用",
		zap.Uint("id", issue.ID),
		zap.Int("asset_count", len(req.AssetIDs)),
		zap.String("handler", handler.Username))
	return nil
}

func (s *issueService) Delete(ctx context.Context, req *dto.DeleteIssueRequest, callerID uint) error {
	if req.TypeName == model.IssueRequire {
		issue, err := s.repo.RequireIssue.GetByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIssueNotFound
			}
			return err
		}
		if issue.InitiatorID != callerID && issue.HandlerID != callerID {
			return ErrNotHandler
		}
		return s.repo.RequireIssue.Delete(ctx, req.ID)
	}

	issue, err := s.repo.Issue.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIssueNotFound
		}
		return err
	}
	if issue.TypeName != req.TypeName {
		return ErrIssueNotFound
	}
	if issue.InitiatorID != callerID && issue.HandlerID != callerID {
		return ErrNotHandler
	}
	return s.repo.Issue.Delete(ctx, req.ID)
}

func (s *issueService) Handling(ctx context.Context, callerID uint) ([]dto.IssueResponse, error) {
	issues, err := s.repo.Issue.ListByHandler(ctx, callerID, model.IssueDoing)
	if err != nil {
		s.logger.Error("查询待处理事项失败", zap.Uint("user_id", callerID), zap.Error(err))
		return nil, err
	}
	requires, err := s.repo.RequireIssue.ListByHandler(ctx, callerID, model.IssueDoing)
	if err != nil {
		s.logger.Error("查询待处理领用失败", zap.Uint("user_id", callerID), zap.Error(err))
		return nil, err
	}

	res := make([]dto.IssueResponse, 0, len(issues)+len(requires))
	for i := range issues {
		res = append(res, toIssueResponse(&issues[i]))
	}
	for i := range requires {
		res = append(res, toRequireIssueResponse(&requires[i]))
	}
	return res, nil
}

func (s *issueService) Waiting(ctx context.Context, callerID uint) ([]dto.IssueResponse, error) {
	issues, err := s.repo.Issue.ListByInitiator(ctx, callerID)
	if err != nil {
		s.logger.Error("查询已发起事项失败", zap.Uint("user_id", callerID), zap.Error(err))
		return nil, err
	}
	requires, err := s.repo.RequireIssue.ListByInitiator(ctx, callerID)
	if err != nil {
		s.logger.Error("查询已发起领用失败", zap.Uint("user_id", callerID), zap.Error(err))
		return nil, err
	}

	res := make([]dto.IssueResponse, 0, len(issues)+len(requires))
	for i := range issues {
		res = append(res, toIssueResponse(&issues[i]))
	}
	for i := range requires {
		res = append(res, toRequireIssueResponse(&requires[i]))
	}
	return res, nil
}

func (s *issueService) RequireAssetList(ctx context.Context, req *dto.RequireAssetListRequest, callerID uint) ([]dto.AssetResponse, error) {
	return s.assetSvc.ListIdle(ctx, req.Category, callerID)
}

// ── 内部辅助方法 ──

func (s *issueService) loadCallerAndAsset(ctx context.Context, callerID, assetID uint) (*model.User, *model.Asset, error) {
	caller, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	asset, err := s.assetSvc.GetByID(ctx, assetID)
	if err != nil {
		return nil, nil, err
	}
	return caller, asset, nil
}

func formatAsset(asset *model.Asset) string {
	if asset == nil {
		return ""
	}
	return fmt.Sprintf("%s(%d)", asset.Name, asset.ID)
}

func toIssueResponse(issue *model.Issue) dto.IssueResponse {
	initiator, assignee := "", ""
	if issue.Initiator != nil {
		initiator = issue.Initiator.Username
	}
	if issue.Assignee != nil {
		assignee = issue.Assignee.Username
	}
	info := ""
	switch issue.TypeName {
	case model.IssueMaintain:
		if issue.Handler != nil {
			info = "维保人：" + issue.Handler.Username
		}
	case model.IssueTransfer:
		info = "转移人：" + assignee
	}
	return dto.IssueResponse{
		ID:        issue.ID,
		Initiator: initiator,
		Asset:     formatAsset(issue.Asset),
		TypeName:  issue.TypeName,
		Assignee:  assignee,
		Status:    issue.Status,
		Info:      info,
		StartTime: issue.CreatedAt.Unix(),
	}
}

func toRequireIssueResponse(issue *model.RequireIssue) dto.IssueResponse {
	initiator, category := "", ""
	if issue.Initiator != nil {
		initiator = issue.Initiator.Username
	}
	if issue.Category != nil {
		category = issue.Category.Name
	}
	assets := ""
	for i := range issue.Assets {
		if assets != "" {
			assets += "、"
		}
		assets += formatAsset(&issue.Assets[i])
	}
	return dto.IssueResponse{
		ID:        issue.ID,
		Initiator: initiator,
		Asset:     assets,
		TypeName:  model.IssueRequire,
		Status:    issue.Status,
		Info:      fmt.Sprintf("资产类别: %s 事由：%s", category, issue.Reason),
		StartTime: issue.CreatedAt.Unix(),
	}
}
