package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"hrms/internal/auth"
	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/pkg/apperrors"
	"hrms/pkg/password"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// --- DTOs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SwitchCompanyRequest struct {
	CompanyID string `json:"company_id" binding:"required,uuid"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"omitempty,min=2,max=100"`
	LastName  string `json:"last_name" binding:"omitempty,min=2,max=100"`
}

// CompanyResponse is the company projection attached to a user.
type CompanyResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	CommercialFileName string     `json:"commercial_file_name"`
	Department         string     `json:"department"`
	Classification     string     `json:"classification"`
	IndustryType       string     `json:"industry_type"`
	Location           string     `json:"location"`
	IsActive           bool       `json:"is_active"`
	EstablishmentDate  *time.Time `json:"establishment_date"`
	CreatedAt          string     `json:"created_at"`
	UpdatedAt          string     `json:"updated_at"`
}

// UserResponse is the user projection returned by auth endpoints. It never
// carries tokens; those travel in cookies only. Permissions are recomputed
// wholesale on every login, switch and refresh.
type UserResponse struct {
	ID            uuid.UUID         `json:"id"`
	Email         string            `json:"email"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name"`
	Role          model.Role        `json:"role"`
	CompanyID     *uuid.UUID        `json:"company_id"`
	Companies     []CompanyResponse `json:"companies"`
	Permissions   []string          `json:"permissions"`
	IsActive      bool              `json:"is_active"`
	EmailVerified bool              `json:"email_verified"`
	LastLoginAt   *time.Time        `json:"last_login_at"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}

// TokenPair carries freshly issued credentials from the service to the
// handler, which moves them into cookies. Never serialized.
type TokenPair struct {
	AccessToken  string
	AccessJTI    string
	RefreshToken string
}

// --- Interface ---

// AuthService implements the session lifecycle: login, refresh with
// rotation, logout with blacklisting, company switching and permission
// derivation. It also backs the auth middleware's revocation and
// permission lookups.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*UserResponse, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID, tokenID string, tokenExp time.Time, refreshToken string) error
	CurrentUser(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) (*UserResponse, error)
	SwitchCompany(ctx context.Context, userID, companyID uuid.UUID) (*UserResponse, *TokenPair, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest, tokenID string, tokenExp time.Time) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error)

	// PermissionsFor implements middleware.PermissionSource.
	PermissionsFor(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) ([]string, error)
}

type authService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	txm    repository.TransactionManager
	audit  AuditService
}

func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, txm repository.TransactionManager, audit AuditService) AuthService {
	return &authService{users: users, tokens: tokens, txm: txm, audit: audit}
}

// --- Implementation ---

func companyToResponse(c *model.Company) CompanyResponse {
	return CompanyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		CommercialFileName: c.CommercialFileName,
		Department:         c.Department,
		Classification:     c.Classification,
		IndustryType:       c.IndustryType,
		Location:           c.Location,
		IsActive:           c.IsActive,
		EstablishmentDate:  c.EstablishmentDate,
		CreatedAt:          c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          c.UpdatedAt.Format(time.RFC3339),
	}
}

// projection rebuilds the full user view for a company context. companyID
// nil means "the user's stored current company, if still accessible".
func (s *authService) projection(ctx context.Context, user *model.User, companyID *uuid.UUID) (*UserResponse, error) {
	memberships, err := s.users.Memberships(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	companies, err := s.users.CompaniesOf(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	ctxCompany := companyID
	if ctxCompany == nil {
		ctxCompany = user.CompanyID
	}
	// The current company must be one of the user's companies; a stale
	// pointer degrades to the global context instead of leaking access.
	if ctxCompany != nil && !auth.CanAccessCompany(memberships, *ctxCompany) {
		if !auth.IsSuperAdmin(user.Role) {
			ctxCompany = nil
		}
	}

	role := user.Role
	var override []string
	if ctxCompany != nil {
		for _, m := range memberships {
			if m.CompanyID == *ctxCompany {
				role = m.Role
				override = m.Permissions
				break
			}
		}
	}

	resp := &UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Role:          user.Role,
		CompanyID:     ctxCompany,
		Companies:     make([]CompanyResponse, 0, len(companies)),
		Permissions:   auth.EffectivePermissions(role, override),
		IsActive:      user.IsActive,
		EmailVerified: user.EmailVerified,
		LastLoginAt:   user.LastLoginAt,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     user.UpdatedAt.Format(time.RFC3339),
	}
	for i := range companies {
		resp.Companies = append(resp.Companies, companyToResponse(&companies[i]))
	}
	return resp, nil
}

func (s *authService) issuePair(ctx context.Context, user *model.User, companyID *uuid.UUID) (*TokenPair, error) {
	accessToken, jti, err := auth.IssueAccessToken(user.ID, user.Role, companyID, accessTokenTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refresh, err := password.GenerateSecureToken(64)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	row := model.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.tokens.CreateRefreshToken(ctx, &row); err != nil {
		return nil, apperrors.Internal(err)
	}
	return &TokenPair{AccessToken: accessToken, AccessJTI: jti, RefreshToken: refresh}, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*UserResponse, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same message for unknown email and bad password.
		return nil, nil, apperrors.Authentication("invalid email or password")
	}
	if !user.IsActive {
		return nil, nil, apperrors.Authentication("account is disabled")
	}
	if !password.Verify(req.Password, user.Password) {
		return nil, nil, apperrors.Authentication("invalid email or password")
	}

	resp, err := s.projection(ctx, user, nil)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.issuePair(ctx, user, resp.CompanyID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		log.Println("auth: failed to record last login:", err)
	}
	resp.LastLoginAt = &now

	if err := s.audit.Record(ctx, AuditEntry{
		UserID:    &user.ID,
		CompanyID: resp.CompanyID,
		Action:    model.ActionLogin,
		EntityID:  user.ID.String(),
	}); err != nil {
		log.Println("auth: failed to write login audit:", err)
	}
	return resp, pair, nil
}

// Refresh rotates the presented refresh token: the old row is deleted and a
// fresh one issued alongside the new access token. A replayed old token
// therefore fails with 401.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	row, err := s.tokens.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.Authentication("invalid refresh token")
	}
	if time.Now().After(row.ExpiresAt) {
		_ = s.tokens.DeleteRefreshToken(ctx, row.ID)
		return nil, apperrors.Authentication("refresh token expired")
	}
	user, err := s.users.GetByID(ctx, row.UserID)
	if err != nil {
		return nil, apperrors.Authentication("invalid refresh token")
	}
	if !user.IsActive {
		return nil, apperrors.Authentication("account is disabled")
	}

	var pair *TokenPair
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.tokens.DeleteRefreshToken(txCtx, row.ID); err != nil {
			return err
		}
		var issueErr error
		pair, issueErr = s.issuePair(txCtx, user, user.CompanyID)
		return issueErr
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return pair, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID, tokenID string, tokenExp time.Time, refreshToken string) error {
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.tokens.RevokeToken(txCtx, tokenID, userID, tokenExp); err != nil {
			return err
		}
		if refreshToken != "" {
			if row, getErr := s.tokens.GetRefreshToken(txCtx, refreshToken); getErr == nil {
				if err := s.tokens.DeleteRefreshToken(txCtx, row.ID); err != nil {
					return err
				}
			}
		}
		return s.audit.Record(txCtx, AuditEntry{
			UserID:   &userID,
			Action:   model.ActionLogout,
			EntityID: userID.String(),
		})
	})
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.Authentication("user no longer exists")
		}
		return nil, apperrors.Internal(err)
	}
	return s.projection(ctx, user, companyID)
}

// SwitchCompany re-derives the whole projection for the new context and
// issues a fresh token pair carrying the new company claim. The client is
// expected to replace its user wholesale, never merge.
func (s *authService) SwitchCompany(ctx context.Context, userID, companyID uuid.UUID) (*UserResponse, *TokenPair, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, apperrors.Authentication("user no longer exists")
	}
	memberships, err := s.users.Memberships(ctx, userID)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	if !auth.CanAccessCompany(memberships, companyID) && !auth.IsSuperAdmin(user.Role) {
		return nil, nil, apperrors.Authorization("no access to the requested company")
	}

	if err := s.users.SetCurrentCompany(ctx, userID, &companyID); err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	user.CompanyID = &companyID

	resp, err := s.projection(ctx, user, &companyID)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.issuePair(ctx, user, &companyID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.audit.Record(ctx, AuditEntry{
		UserID:    &userID,
		CompanyID: &companyID,
		Action:    model.ActionSwitchCompany,
		EntityID:  companyID.String(),
	}); err != nil {
		log.Println("auth: failed to write switch audit:", err)
	}
	return resp, pair, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest, tokenID string, tokenExp time.Time) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.Authentication("user no longer exists")
	}
	if !password.Verify(req.CurrentPassword, user.Password) {
		return apperrors.Authentication("current password is incorrect")
	}
	if strength := password.ValidateStrength(req.NewPassword); !strength.IsValid {
		return apperrors.Validation(strength.Message)
	}
	if !password.IsDifferent(req.NewPassword, user.Password) {
		return apperrors.Validation("new password must differ from the current one")
	}
	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return apperrors.Internal(err)
	}

	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		user.Password = hash
		if err := s.users.Update(txCtx, user); err != nil {
			return err
		}
		// Invalidate every open session immediately.
		if err := s.tokens.RevokeToken(txCtx, tokenID, userID, tokenExp); err != nil {
			return err
		}
		if err := s.tokens.DeleteUserRefreshTokens(txCtx, userID); err != nil {
			return err
		}
		return s.audit.Record(txCtx, AuditEntry{
			UserID:   &userID,
			Action:   model.ActionPasswordChange,
			EntityID: userID.String(),
		})
	})
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Authentication("user no longer exists")
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.projection(ctx, user, nil)
}

// PermissionsFor resolves the effective set for the middleware. A user
// without membership in the requested company gets an empty set, which the
// permission check then denies.
func (s *authService) PermissionsFor(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) ([]string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if auth.IsSuperAdmin(user.Role) {
		return auth.DefaultPermissions(user.Role), nil
	}
	if companyID == nil {
		return auth.DefaultPermissions(user.Role), nil
	}
	membership, err := s.users.Membership(ctx, userID, *companyID)
	if err != nil {
		if repository.IsNotFound(err) {
			return []string{}, nil
		}
		return nil, err
	}
	return auth.EffectivePermissions(membership.Role, membership.Permissions), nil
}
