package service

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUserBan                 = errors.New("用户已被封禁")
	ErrUserExist               = errors.New("用户已存在")
	ErrUserUsernameExist       = errors.New("用户名已存在")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrUserHasRole             = errors.New("用户已拥有此角色")
	ErrStoryNotFound           = errors.New("作品不存在")
	ErrStorySlugExist          = errors.New("作品 slug 已存在")
	ErrStoryNotPublished       = errors.New("作品未发布")
	ErrChapterNotFound         = errors.New("章节不存在")
	ErrChapterNumberExist      = errors.New("章节序号已存在")
	ErrCategoryNotFound        = errors.New("分类不存在")
	ErrCommentNotFound         = errors.New("评论不存在")
	ErrRatingOutOfRange        = errors.New("评分超出范围")
	ErrHorizonInvalid          = errors.New("无效的榜单周期")
	ErrRankingInitializing     = errors.New("排行榜初始化中，请稍后重试")
	ErrNotificationNotFound    = errors.New("通知不存在")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserBan:                 Unauthorized,
	ErrUserExist:               BadRequest,
	ErrUserUsernameExist:       BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrUserHasRole:             BadRequest,
	ErrStoryNotFound:           NotFound,
	ErrStorySlugExist:          BadRequest,
	ErrStoryNotPublished:       BadRequest,
	ErrChapterNotFound:         NotFound,
	ErrChapterNumberExist:      BadRequest,
	ErrCategoryNotFound:        NotFound,
	ErrCommentNotFound:         NotFound,
	ErrRatingOutOfRange:        BadRequest,
	ErrHorizonInvalid:          BadRequest,
	ErrRankingInitializing:     ServiceUnavailable,
	ErrNotificationNotFound:    NotFound,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}

// isDuplicateError MySQL 唯一索引冲突（1062）
func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}
