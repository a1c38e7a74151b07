package book

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrInvalidTitle 书名不合法
	ErrInvalidTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "书名长度须在2-255个字符之间")

	// ErrInvalidAuthor 作者不合法
	ErrInvalidAuthor = apperrors.New(apperrors.ErrCodeInvalidParams, "作者长度须在2-255个字符之间")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0")

	// ErrInvalidCoverURL 封面URL不合法
	ErrInvalidCoverURL = apperrors.New(apperrors.ErrCodeInvalidParams, "封面图片URL必须是HTTPS地址")

	// ErrInvalidID 图书ID不合法
	ErrInvalidID = apperrors.New(apperrors.ErrCodeInvalidParams, "图书ID不合法")
)
