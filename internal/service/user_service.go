package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/security"
	"Inkstone/internal/repository"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) error
	Login(ctx context.Context, dto *dto.CredentialDTO) (*dto.LoginResultDTO, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error)
	UpdateUserInfo(ctx context.Context, id uint64, dto *dto.UpdateUserDTO) error
	UpdatePasswordFromOld(ctx context.Context, id uint64, dto *dto.ChangePasswordDTO) error
	GrantRole(ctx context.Context, dto *dto.GrantRoleDTO) error
	BanUser(ctx context.Context, id uint64) error
	UnBanUser(ctx context.Context, id uint64) error
}

type userServiceImpl struct {
	userRepo      repository.UserRepo
	roleRepo      repository.RoleRepo
	userRolesRepo repository.UserRolesRepo
}

func NewUserService(userRepo repository.UserRepo, roleRepo repository.RoleRepo, userRolesRepo repository.UserRolesRepo) UserService {
	return &userServiceImpl{
		userRepo:      userRepo,
		roleRepo:      roleRepo,
		userRolesRepo: userRolesRepo,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	exist, err := s.userRepo.GetByUsername(ctx, regDTO.Username)
	if err != nil {
		return err
	}
	if exist != nil {
		return ErrUserUsernameExist
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: regDTO.Username,
		Password: passwordHash,
		Nickname: regDTO.Nickname,
		Bio:      regDTO.Bio,
	}
	if user.Nickname == "" {
		user.Nickname = regDTO.Username
	}
	return s.userRepo.Create(ctx, user)
}

func (s *userServiceImpl) Login(ctx context.Context, credDTO *dto.CredentialDTO) (*dto.LoginResultDTO, error) {
	if credDTO.Username == "" || credDTO.Password == "" {
		return nil, ErrMissingLoginCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, credDTO.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsBan {
		return nil, ErrUserBan
	}
	if err = security.CheckPasswordHash(credDTO.Password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	roleNames, err := s.userRolesRepo.GetRoleNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	token, err := security.GenerateToken(user.ID, roleNames)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResultDTO{
		Token: token,
		User:  toUserDTO(user, roleNames),
	}, nil
}

// Logout 把 token 签名拉黑到过期为止
func (s *userServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, time.Hour*24*7)
}

func (s *userServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDelete {
		return nil, ErrUserNotFound
	}
	roleNames, err := s.userRolesRepo.GetRoleNames(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user, roleNames), nil
}

func (s *userServiceImpl) GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.UserDTO, 0, len(users))
	for _, user := range users {
		result = append(result, &dto.UserDTO{
			UserID:    user.ID,
			Username:  user.Username,
			Nickname:  user.Nickname,
			AvatarURL: user.AvatarURL,
		})
	}
	return result, nil
}

func (s *userServiceImpl) UpdateUserInfo(ctx context.Context, id uint64, updateDTO *dto.UpdateUserDTO) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if updateDTO.Nickname != nil {
		user.Nickname = *updateDTO.Nickname
	}
	if updateDTO.Bio != nil {
		user.Bio = updateDTO.Bio
	}
	if updateDTO.Avatar != nil {
		user.AvatarURL = updateDTO.Avatar
	}
	return s.userRepo.Update(ctx, user)
}

func (s *userServiceImpl) UpdatePasswordFromOld(ctx context.Context, id uint64, pwdDTO *dto.ChangePasswordDTO) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err = security.CheckPasswordHash(pwdDTO.OldPassword, user.Password); err != nil {
		return ErrPasswordIncorrect
	}

	passwordHash, err := security.HashPassword(pwdDTO.NewPassword)
	if err != nil {
		return err
	}
	user.Password = passwordHash
	return s.userRepo.Update(ctx, user)
}

func (s *userServiceImpl) GrantRole(ctx context.Context, grantDTO *dto.GrantRoleDTO) error {
	user, err := s.userRepo.GetByID(ctx, grantDTO.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	role, err := s.roleRepo.GetByName(ctx, grantDTO.RoleName)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrParamInvalid
	}

	has, err := s.userRolesRepo.Has(ctx, grantDTO.UserID, role.ID)
	if err != nil {
		return err
	}
	if has {
		return ErrUserHasRole
	}
	return s.userRolesRepo.Grant(ctx, grantDTO.UserID, role.ID)
}

func (s *userServiceImpl) BanUser(ctx context.Context, id uint64) error {
	return s.userRepo.SetBan(ctx, id, true)
}

func (s *userServiceImpl) UnBanUser(ctx context.Context, id uint64) error {
	return s.userRepo.SetBan(ctx, id, false)
}

func toUserDTO(user *model.User, roles []string) *dto.UserDTO {
	userDTO := &dto.UserDTO{}
	_ = copier.Copy(userDTO, user)
	userDTO.UserID = user.ID
	userDTO.Roles = roles
	userDTO.CreatedAt = &user.CreatedAt
	return userDTO
}
