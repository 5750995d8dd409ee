package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zhanghx0905/AssetManagementBackend/config"
	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
	"github.com/zhanghx0905/AssetManagementBackend/internal/repository"
)

// 共享测试组织结构：
//
//	部门    总公司(1) ── 研发部(2) ── 测试组(3)
//	用户    admin(1, 总公司, IT+SYSTEM)
//	        张三(2, 测试组, 无角色)
//	        李四(3, 研发部, ASSET)      ← 研发部的资产管理员
//	        王五(4, 测试组, 无角色)
//	        维修工(5, 研发部, 无角色)
//	类别    资产(1) ── 通用设备(2)
//	资产    服务器(1, 李四, IDLE)
//	        显示器(2, 李四, IDLE)
//	        笔记本(3, 张三, IN_USE) ── 电源(4, 张三, IN_USE)
func setupOrg() (*mocks, *repository.Repository) {
	m, repo := newMocks()
	ctx := context.Background()

	root := &model.Department{Name: "总公司"}
	m.depts.Create(ctx, root)
	dev := &model.Department{Name: "研发部", ParentID: &root.ID}
	m.depts.Create(ctx, dev)
	qa := &model.Department{Name: "测试组", ParentID: &dev.ID}
	m.depts.Create(ctx, qa)

	m.users.Create(ctx, &model.User{
		Username: "admin", DepartmentID: root.ID, Active: true,
		Roles: model.StringArray{model.RoleIT, model.RoleSystem},
	})
	m.users.Create(ctx, &model.User{
		Username: "张三", DepartmentID: qa.ID, Active: true, Roles: model.StringArray{},
	})
	m.users.Create(ctx, &model.User{
		Username: "李四", DepartmentID: dev.ID, Active: true,
		Roles: model.StringArray{model.RoleAsset},
	})
	m.users.Create(ctx, &model.User{
		Username: "王五", DepartmentID: qa.ID, Active: true, Roles: model.StringArray{},
	})
	m.users.Create(ctx, &model.User{
		Username: "维修工", DepartmentID: dev.ID, Active: true, Roles: model.StringArray{},
	})

	catRoot := &model.AssetCategory{Name: "资产"}
	m.categories.Create(ctx, catRoot)
	catGeneral := &model.AssetCategory{Name: "通用设备", ParentID: &catRoot.ID}
	m.categories.Create(ctx, catGeneral)

	start := time.Now().Add(-366 * 24 * time.Hour)
	m.assets.Create(ctx, &model.Asset{
		Name: "服务器", CategoryID: catGeneral.ID, TypeName: model.AssetTypeItem,
		Quantity: 1, Value: 10000, Status: model.AssetIdle, OwnerID: 3,
		ServiceLife: 10, StartTime: start,
	})
	m.assets.Create(ctx, &model.Asset{
		Name: "显示器", CategoryID: catGeneral.ID, TypeName: model.AssetTypeItem,
		Quantity: 1, Value: 2000, Status: model.AssetIdle, OwnerID: 3,
		ServiceLife: 5, StartTime: start,
	})
	laptop := &model.Asset{
		Name: "笔记本", CategoryID: catGeneral.ID, TypeName: model.AssetTypeItem,
		Quantity: 1, Value: 8000, Status: model.AssetInUse, OwnerID: 2,
		ServiceLife: 5, StartTime: start,
	}
	m.assets.Create(ctx, laptop)
	m.assets.Create(ctx, &model.Asset{
		Name: "电源", CategoryID: catGeneral.ID, TypeName: model.AssetTypeItem,
		Quantity: 1, Value: 300, Status: model.AssetInUse, OwnerID: 2,
		ParentID: &laptop.ID, ServiceLife: 5, StartTime: start,
	})

	return m, repo
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{AdminUsername: "admin"},
	}
}

func setupServices() (*mocks, *Service) {
	m, repo := setupOrg()
	logger := zap.NewNop()
	cfg := testConfig()

	deptSvc := NewDepartmentService(cfg, repo, logger)
	assetSvc := NewAssetService(repo, logger)
	svc := &Service{
		User:       NewUserService(cfg, repo, m.sessions, logger),
		Department: deptSvc,
		Category:   NewCategoryService(repo, logger),
		Asset:      assetSvc,
		Issue:      NewIssueService(repo, assetSvc, deptSvc, logger),
		Export:     NewExportService(assetSvc, logger),
	}
	return m, svc
}
