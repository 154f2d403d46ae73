package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/lingo_go_server/config"
	"github.com/qs3c/lingo_go_server/internal/model"
	"github.com/qs3c/lingo_go_server/internal/model/dto"
	"github.com/qs3c/lingo_go_server/internal/pkg/jwt"
	"github.com/qs3c/lingo_go_server/internal/pkg/oauth"
	"github.com/qs3c/lingo_go_server/internal/repository"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrUsernameExists     = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	userRepo *repository.UserRepository
	tierRepo *repository.TierRepository
	github   *oauth.GithubOAuth
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, tierRepo *repository.TierRepository, github *oauth.GithubOAuth, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tierRepo: tierRepo,
		github:   github,
		cfg:      cfg,
	}
}

// Register 注册新用户，默认挂到 free 档位
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if exists, err := s.userRepo.ExistsByEmail(req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrEmailExists
	}
	if exists, err := s.userRepo.ExistsByUsername(req.Username); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	freeTier, err := s.tierRepo.GetByName(model.TierFree)
	if err != nil {
		return nil, ErrFreeTierMissing
	}

	hashStr := string(hash)
	user := &model.User{
		Username:           req.Username,
		Email:              &req.Email,
		PasswordHash:       &hashStr,
		SubscriptionTierID: &freeTier.ID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{UserID: user.ID}, nil
}

// Login 邮箱密码登录，签发 JWT
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// OAuth 用户没有密码，不能走密码登录
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  buildUserInfo(user),
	}, nil
}

// GithubAuthURL 生成 GitHub 授权跳转地址
func (s *AuthService) GithubAuthURL(state string) string {
	return s.github.GetAuthURL(state)
}

// GithubCallback 处理 GitHub 回调：按 github_id 找用户，找不到再按
// 邮箱合并已有账号，都没有则建新用户
func (s *AuthService) GithubCallback(ctx context.Context, code string) (*dto.LoginResponse, error) {
	token, err := s.github.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	ghUser, err := s.github.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}

	githubID := strconv.FormatInt(ghUser.ID, 10)
	user, err := s.userRepo.GetByGithubID(githubID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user, err = s.findOrCreateGithubUser(ghUser, githubID)
		if err != nil {
			return nil, err
		}
	}

	jwtToken, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: jwtToken,
		User:  buildUserInfo(user),
	}, nil
}

func (s *AuthService) findOrCreateGithubUser(ghUser *oauth.GithubUser, githubID string) (*model.User, error) {
	// 邮箱匹配到已有账号时关联 github_id，避免同一个人出现两个账号
	if ghUser.Email != "" {
		user, err := s.userRepo.GetByEmail(ghUser.Email)
		if err == nil {
			user.GithubID = &githubID
			if user.AvatarURL == "" {
				user.AvatarURL = ghUser.AvatarURL
			}
			if err := s.userRepo.Update(user); err != nil {
				return nil, err
			}
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	freeTier, err := s.tierRepo.GetByName(model.TierFree)
	if err != nil {
		return nil, ErrFreeTierMissing
	}

	username := ghUser.Login
	if exists, err := s.userRepo.ExistsByUsername(username); err != nil {
		return nil, err
	} else if exists {
		username = fmt.Sprintf("%s_%s", ghUser.Login, githubID)
	}

	user := &model.User{
		Username:           username,
		Name:               ghUser.Name,
		GithubID:           &githubID,
		AvatarURL:          ghUser.AvatarURL,
		SubscriptionTierID: &freeTier.ID,
	}
	if ghUser.Email != "" {
		user.Email = &ghUser.Email
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if user.Email != nil {
		info.Email = *user.Email
	}
	return info
}
