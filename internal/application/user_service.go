package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/payhub-id/payment-service/config"
	"github.com/payhub-id/payment-service/internal/domain/entity"
	repo "github.com/payhub-id/payment-service/internal/domain/repository"
	"github.com/payhub-id/payment-service/pkg/helpers"
	"github.com/payhub-id/payment-service/pkg/mailer"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserService implements registration, authentication and profile
// management for end users.
type UserService struct {
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	Pub          *helpers.RabbitPublisher
	GCS          *storage.Client
	ES           *elasticsearch.Client
	ESUsersIndex string
	Logger       *logrus.Logger
	Cfg          *config.Config
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, pub *helpers.RabbitPublisher, gcs *storage.Client, es *elasticsearch.Client, logger *logrus.Logger, cfg *config.Config) *UserService {
	return &UserService{
		Repo:         r,
		JWT:          jwt,
		Pub:          pub,
		GCS:          gcs,
		ES:           es,
		ESUsersIndex: cfg.ESUsersIndex,
		Logger:       logger,
		Cfg:          cfg,
	}
}

// Register creates a USER account seeded with the configured starting
// balance and fires a welcome email.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*entity.User, error) {
	if !emailRe.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if existing, err := s.Repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:    email,
		Password: hash,
		Name:     name,
		Role:     entity.RoleUser,
		IsActive: true,
		Balance:  s.Cfg.StartingBalance,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}

	enqueueEmail(s.Pub, s.Logger, s.Cfg.MailSendEnabled, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TplWelcome,
		Data: map[string]any{
			"Name":            u.Name,
			"AppName":         s.Cfg.AppName,
			"StartingBalance": fmt.Sprintf("%.2f", u.Balance),
			"DashboardURL":    s.Cfg.DashboardURL,
		},
	})
	_ = s.indexUser(ctx, u)

	return u, nil
}

// Login validates credentials and issues a bearer token. An unknown
// email and a wrong password are indistinguishable to the caller; a
// deactivated account gets its own error so the UI can say so.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if !u.IsActive {
		return nil, "", time.Time{}, ErrAccountDeactivated
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.Generate(u.ID, u.Email, u.Role.String())
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, "", time.Time{}, err
	}

	enqueueEmail(s.Pub, s.Logger, s.Cfg.MailSendEnabled, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TplLoginNotify,
		Data: map[string]any{
			"Name":    u.Name,
			"AppName": s.Cfg.AppName,
			"Time":    time.Now().UTC().Format("02 January 2006, 15:04 MST"),
		},
	})

	return u, token, exp, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name           string
	ProfilePicture string // data URI; empty leaves the stored picture untouched
}

// UpdateProfile changes the user's display name and/or picture. Pictures
// arrive as data URIs; when a GCS bucket is configured the image is
// offloaded to object storage and the public URL is stored instead.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	picture := in.ProfilePicture
	if picture != "" {
		if !strings.HasPrefix(picture, "data:image/") {
			return nil, ErrInvalidPicture
		}
		if s.GCS != nil && s.Cfg.GCSBucket != "" {
			objectPath := "avatars/" + userID + "/" + uuid.NewString()
			url, err := helpers.UploadImageDataURI(ctx, s.GCS, s.Cfg.GCSBucket, objectPath, picture)
			if err != nil {
				// keep the data URI in the row rather than failing the update
				if s.Logger != nil {
					s.Logger.WithError(err).WithField("user_id", userID).Warn("avatar offload to GCS failed")
				}
			} else {
				picture = url
			}
		}
	}

	u, err := s.Repo.UpdateProfile(ctx, userID, in.Name, picture)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"role":       u.Role.String(),
		"is_active":  u.IsActive,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// SearchUsers performs a simple multi_match search on email and name.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
