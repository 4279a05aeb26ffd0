package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quiz_expleo_backend/internal/config"
	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/repository"
	"quiz_expleo_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

type AuthService struct {
	UserRepo   *repository.UserRepository
	StatsRepo  *repository.UserStatsRepository
	Cfg        *config.Config
	httpClient *http.Client
}

func NewAuthService(userRepo *repository.UserRepository, statsRepo *repository.UserStatsRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:   userRepo,
		StatsRepo:  statsRepo,
		Cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *AuthService) Register(user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	if user.Role == "" {
		user.Role = model.Collaborator
	}

	if err := s.UserRepo.Create(user); err != nil {
		return err
	}

	// 注册即建立空的统计缓存行
	return s.StatsRepo.Upsert(&model.UserStats{UserID: user.ID})
}

func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	return token, user, err
}

type googleTokenInfo struct {
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleLogin 校验 Google ID Token 并登录，账号不存在时自动创建
func (s *AuthService) GoogleLogin(idToken string) (string, *model.User, error) {
	info, err := s.verifyGoogleToken(idToken)
	if err != nil {
		return "", nil, err
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))
	user, err := s.UserRepo.FindByEmail(email)
	if err == gorm.ErrRecordNotFound {
		user = &model.User{
			Username: info.Name,
			Email:    email,
			Password: "-", // Google 账号不使用密码登录
			Role:     model.Collaborator,
			Avatar:   info.Picture,
		}
		if user.Username == "" {
			user.Username = strings.Split(email, "@")[0]
		}
		if err := s.UserRepo.Create(user); err != nil {
			return "", nil, err
		}
		if err := s.StatsRepo.Upsert(&model.UserStats{UserID: user.ID}); err != nil {
			return "", nil, err
		}
	} else if err != nil {
		return "", nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	return token, user, err
}

func (s *AuthService) verifyGoogleToken(idToken string) (*googleTokenInfo, error) {
	resp, err := s.httpClient.Get(googleTokenInfoURL + "?id_token=" + url.QueryEscape(idToken))
	if err != nil {
		return nil, fmt.Errorf("google tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, util.ErrInvalidGoogleToken
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	if s.Cfg.Google.ClientID != "" && info.Aud != s.Cfg.Google.ClientID {
		return nil, util.ErrInvalidGoogleToken
	}
	if info.Email == "" || info.EmailVerified != "true" {
		return nil, util.ErrInvalidGoogleToken
	}

	return &info, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
