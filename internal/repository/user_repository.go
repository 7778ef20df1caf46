package repository

import (
	"context"
	"fmt"
	"time"

	"ludora/internal/domain"
	"ludora/internal/repository/models"
	"ludora/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db DBTX
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

const userColumns = `id, username, email, hashed_password, is_active, is_superuser, created_at, updated_at`

func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `)
	          VALUES (:ID, :USERNAME, :EMAIL, :HASHED_PASSWORD, :IS_ACTIVE, :IS_SUPERUSER, :CREATED_AT, :UPDATED_AT)`

	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainUser(user)); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError(domain.CodeDuplicateName, "username or email already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &user, query, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return toDomainUser(&user), nil
}

func (r *sqlxUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &user, query, username); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return toDomainUser(&user), nil
}

func (r *sqlxUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE username = :1 OR email = :2`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &count, query, username, email); err != nil {
		return false, fmt.Errorf("failed to check existing users: %w", err)
	}
	return count > 0, nil
}

func (r *sqlxUserRepository) SetSuperuser(ctx context.Context, userID string, superuser bool) error {
	query := `UPDATE users SET is_superuser = :1, updated_at = :2 WHERE id = :3`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, util.BoolToNumber(superuser), time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to set superuser flag: %w", err)
	}
	return expectAffected(result, "user", userID)
}

// sqlxProfileRepository implements domain.ProfileRepository using sqlx.
type sqlxProfileRepository struct {
	db DBTX
}

func NewSQLXProfileRepository(db *sqlx.DB) domain.ProfileRepository {
	return &sqlxProfileRepository{db: db}
}

const profileColumns = `user_id, first_name, last_name, avatar_url, bio, current_streak, max_streak, in_app_currency, created_at, updated_at`

func (r *sqlxProfileRepository) CreateProfile(ctx context.Context, profile *domain.UserProfile) error {
	query := `INSERT INTO user_profiles (` + profileColumns + `)
	          VALUES (:USER_ID, :FIRST_NAME, :LAST_NAME, :AVATAR_URL, :BIO, :CURRENT_STREAK, :MAX_STREAK, :IN_APP_CURRENCY, :CREATED_AT, :UPDATED_AT)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainProfile(profile)); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *sqlxProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return r.getProfile(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE user_id = :1`, userID)
}

func (r *sqlxProfileRepository) GetProfileForUpdate(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return r.getProfile(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE user_id = :1 FOR UPDATE`, userID)
}

func (r *sqlxProfileRepository) getProfile(ctx context.Context, query, userID string) (*domain.UserProfile, error) {
	var profile models.UserProfile
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &profile, query, userID); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return toDomainProfile(&profile), nil
}

func (r *sqlxProfileRepository) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) error {
	query := `UPDATE user_profiles SET first_name = :1, last_name = :2, avatar_url = :3, bio = :4, updated_at = :5
	          WHERE user_id = :6`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		util.StringToNullString(update.FirstName),
		util.StringToNullString(update.LastName),
		util.StringToNullString(update.AvatarURL),
		util.StringToNullString(update.Bio),
		time.Now().UTC(),
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return expectAffected(result, "profile", userID)
}

func (r *sqlxProfileRepository) SetCurrency(ctx context.Context, userID string, currency int64) error {
	query := `UPDATE user_profiles SET in_app_currency = :1, updated_at = :2 WHERE user_id = :3`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, currency, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to set currency: %w", err)
	}
	return expectAffected(result, "profile", userID)
}

func (r *sqlxProfileRepository) AddCurrency(ctx context.Context, userID string, amount int64) error {
	query := `UPDATE user_profiles SET in_app_currency = in_app_currency + :1, updated_at = :2 WHERE user_id = :3`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, amount, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to add currency: %w", err)
	}
	return expectAffected(result, "profile", userID)
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		HashedPassword: m.HashedPassword,
		IsActive:       m.IsActive == 1,
		IsSuperuser:    m.IsSuperuser == 1,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		IsActive:       util.BoolToNumber(u.IsActive),
		IsSuperuser:    util.BoolToNumber(u.IsSuperuser),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toDomainProfile(m *models.UserProfile) *domain.UserProfile {
	if m == nil {
		return nil
	}
	return &domain.UserProfile{
		UserID:        m.UserID,
		FirstName:     m.FirstName.String,
		LastName:      m.LastName.String,
		AvatarURL:     m.AvatarURL.String,
		Bio:           m.Bio.String,
		CurrentStreak: m.CurrentStreak,
		MaxStreak:     m.MaxStreak,
		Currency:      m.Currency,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func fromDomainProfile(p *domain.UserProfile) *models.UserProfile {
	if p == nil {
		return nil
	}
	return &models.UserProfile{
		UserID:        p.UserID,
		FirstName:     util.StringToNullString(p.FirstName),
		LastName:      util.StringToNullString(p.LastName),
		AvatarURL:     util.StringToNullString(p.AvatarURL),
		Bio:           util.StringToNullString(p.Bio),
		CurrentStreak: p.CurrentStreak,
		MaxStreak:     p.MaxStreak,
		Currency:      p.Currency,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
