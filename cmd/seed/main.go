// 种子数据命令
// 用法：go run ./cmd/seed
// 写入演示账号与示例图书，可重复执行（已存在的数据跳过）
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookshop/internal/domain/auth"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/logger"
)

// 演示账号密码不走注册流程的强度校验（user123只有7位），
// 直接经仓储写入，与正式注册使用相同的bcrypt成本
const bcryptCost = 12

type seedUser struct {
	email    string
	password string
	nickname string
	role     auth.Role
}

type seedBook struct {
	title       string
	author      string
	priceCents  int64
	coverURL    string
	description string
}

var seedUsers = []seedUser{
	{"admin@bookstore.com", "admin123", "Admin", auth.RoleAdmin},
	{"user@bookstore.com", "user123", "Regular User", auth.RoleUser},
}

var seedBooks = []seedBook{
	{
		title:       "The Great Gatsby",
		author:      "F. Scott Fitzgerald",
		priceCents:  999,
		coverURL:    "https://via.placeholder.com/400x600?text=The+Great+Gatsby",
		description: "A story of decadence and excess.",
	},
	{
		title:       "1984",
		author:      "George Orwell",
		priceCents:  1299,
		coverURL:    "https://via.placeholder.com/400x600?text=1984",
		description: "A dystopian social science fiction.",
	},
	{
		title:       "To Kill a Mockingbird",
		author:      "Harper Lee",
		priceCents:  1499,
		coverURL:    "https://via.placeholder.com/400x600?text=To+Kill+a+Mockingbird",
		description: "A story of racial injustice and loss of innocence.",
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zlog, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	db, err := mysql.NewDB(cfg)
	if err != nil {
		zlog.Fatal("初始化数据库失败", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)

	for _, su := range seedUsers {
		if err := seedOneUser(ctx, userRepo, su); err != nil {
			zlog.Fatal("写入用户失败", zap.String("email", su.email), zap.Error(err))
		}
		zlog.Info("用户已就绪", zap.String("email", su.email), zap.String("role", string(su.role)))
	}

	for _, sb := range seedBooks {
		created, err := seedOneBook(ctx, bookRepo, sb)
		if err != nil {
			zlog.Fatal("写入图书失败", zap.String("title", sb.title), zap.Error(err))
		}
		if created {
			zlog.Info("图书已创建", zap.String("title", sb.title))
		} else {
			zlog.Info("图书已存在，跳过", zap.String("title", sb.title))
		}
	}

	zlog.Info("种子数据完成")
}

// seedOneUser 不存在则创建，已存在则跳过
func seedOneUser(ctx context.Context, repo user.Repository, su seedUser) error {
	if _, err := repo.FindByEmail(ctx, su.email); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(su.password), bcryptCost)
	if err != nil {
		return err
	}

	return repo.Create(ctx, user.NewUser(su.email, string(hashed), su.nickname, su.role))
}

// seedOneBook 按标题查重，不存在则创建
func seedOneBook(ctx context.Context, repo book.Repository, sb seedBook) (bool, error) {
	existing, _, err := repo.List(ctx, book.Query{Keyword: sb.title, Page: 1, PageSize: 1})
	if err != nil {
		return false, err
	}
	for _, b := range existing {
		if b.Title == sb.title {
			return false, nil
		}
	}

	b, err := book.NewBook(sb.title, sb.author, sb.priceCents, sb.coverURL, sb.description)
	if err != nil {
		return false, err
	}
	return true, repo.Create(ctx, b)
}
