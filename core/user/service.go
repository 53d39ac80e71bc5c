package user

import (
	"context"
	"net/mail"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/person"
)

var (
	// errors
	ErrUsernameExists       = errors.New("já existe um usuário com este username")
	ErrPersonNotFound       = errors.New("pessoa não encontrada")
	ErrAuthenticationFailed = errors.New("usuário ou senha inválidos")
	ErrAccountDeactivated   = errors.New("conta desativada")
	ErrTooManyAttempts      = errors.New("muitas tentativas de login, tente novamente mais tarde")
	ErrWrongPassword        = errors.New("senha atual incorreta")
)

type Service struct {
	repo    Repository
	persons person.Repository
	mailSvc core.EmailService
	limiter core.RateLimiter
	tokens  *tokenGenerator
	conf    *core.Config
}

func NewService(
	repo Repository,
	persons person.Repository,
	mailSvc core.EmailService,
	limiter core.RateLimiter,
	conf *core.Config,
) *Service {
	return &Service{
		repo:    repo,
		persons: persons,
		mailSvc: mailSvc,
		limiter: limiter,
		tokens:  newTokenGenerator(conf.SecretKey, conf.PasswordResetTimeoutDelta),
		conf:    conf,
	}
}

func (svc *Service) checkPerson(ctx context.Context, id int64) error {
	if _, err := svc.persons.Get(ctx, id); err != nil {
		if core.IsNotFound(err) {
			return core.NewValidationError(ErrPersonNotFound, core.FieldError{Field: "pessoaId", Error: ErrPersonNotFound.Error()})
		}
		return errors.Wrap(err, "getting person")
	}
	return nil
}

func uniqueUsername(err error) error {
	if core.IsUniqueViolation(err) {
		return core.NewValidationError(core.ErrDuplicate, core.FieldError{Field: "username", Error: ErrUsernameExists.Error()})
	}
	return err
}

// Create stores a new User. nu must have been validated.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := svc.checkPerson(ctx, nu.PersonID); err != nil {
		return User{}, err
	}
	usr, err := nu.Build()
	if err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	now := core.NowFunc().UTC()
	usr.Stamp(now, true)
	if err := svc.repo.Create(ctx, &usr); err != nil {
		return User{}, uniqueUsername(errors.Wrap(err, "creating user"))
	}
	return usr, nil
}

func (svc *Service) Get(ctx context.Context, id int64) (User, error) {
	usr, err := svc.repo.Get(ctx, id)
	return usr, errors.Wrap(err, "getting user")
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.findOne(ctx, core.Filter{}.Where("username", core.CleanString(uname, true /* lower */)))
}

func (svc *Service) findOne(ctx context.Context, f core.Filter) (User, error) {
	users, _, err := svc.repo.Query(ctx, f, core.PageRequest{Page: 1, Limit: 1})
	if err != nil {
		return User{}, errors.Wrap(err, "querying users")
	}
	if len(users) == 0 {
		return User{}, core.ErrNotFound
	}
	return users[0], nil
}

func (svc *Service) List(ctx context.Context, filter QueryFilter, page core.PageRequest, ordering ...core.DBOrdering) (core.Page[User], error) {
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "username", Ascending: true}}
	}
	users, total, err := svc.repo.Query(ctx, filter.Filter(), page, ordering...)
	if err != nil {
		return core.Page[User]{}, errors.Wrap(err, "querying users")
	}
	return core.NewPage(users, page, total), nil
}

func (svc *Service) Update(ctx context.Context, id int64, uu UpdateUser) (User, error) {
	usr, err := svc.repo.Get(ctx, id)
	if err != nil {
		return User{}, errors.Wrap(err, "getting user")
	}
	if err := uu.Apply(&usr); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	if uu.Password != nil || (uu.IsActive != nil && *uu.IsActive == Inactive) {
		usr.RefreshTokenHash, usr.RefreshTokenExpiresAt = nil, nil
	}
	return usr, svc.save(ctx, &usr)
}

func (svc *Service) save(ctx context.Context, usr *User) error {
	usr.Stamp(core.NowFunc().UTC(), false)
	return uniqueUsername(errors.Wrap(svc.repo.Update(ctx, usr), "updating user"))
}

func (svc *Service) Delete(ctx context.Context, ids ...int64) error {
	return errors.Wrap(svc.repo.Delete(ctx, ids...), "deleting users")
}

// Authenticate checks the credentials of a login attempt.
// Attempts are throttled per username; a successful login clears the counter.
func (svc *Service) Authenticate(ctx context.Context, uname, pwd string) (User, error) {
	uname = core.CleanString(uname, true /* lower */)
	key := "login:" + uname
	if svc.limiter != nil {
		allowed, err := svc.limiter.Allow(ctx, key, svc.conf.Login.MaxAttempts, svc.conf.Login.Window)
		if err != nil {
			return User{}, errors.Wrap(err, "checking login rate")
		}
		if !allowed {
			return User{}, ErrTooManyAttempts
		}
	}

	usr, err := svc.GetByUsername(ctx, uname)
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, ErrAuthenticationFailed
		}
		return User{}, errors.Wrap(err, "finding user by username")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrAuthenticationFailed
	}
	if !usr.Active() {
		return User{}, ErrAccountDeactivated
	}
	if svc.limiter != nil {
		_ = svc.limiter.Reset(ctx, key)
	}

	now := core.NowFunc().UTC()
	usr.LastLogin = &now
	if err := svc.save(ctx, &usr); err != nil {
		return User{}, errors.Wrap(err, "setting lastLogin")
	}
	return usr, nil
}

// IssueRefreshToken generates a new refresh token for usr. Only its hash is stored,
// which revokes any previously issued one.
func (svc *Service) IssueRefreshToken(ctx context.Context, usr *User) (string, error) {
	token := uuid.NewString()
	hash := hashToken(token)
	exp := core.NowFunc().UTC().Add(svc.conf.Server.JWTRefreshExpirationDelta)
	usr.RefreshTokenHash, usr.RefreshTokenExpiresAt = &hash, &exp
	if err := svc.save(ctx, usr); err != nil {
		return "", errors.Wrap(err, "storing refresh token")
	}
	return token, nil
}

// Refresh rotates a refresh token: the user is returned along with a new refresh token.
func (svc *Service) Refresh(ctx context.Context, token string) (User, string, error) {
	if _, err := uuid.Parse(token); err != nil {
		return User{}, "", ErrInvalidToken
	}
	usr, err := svc.findOne(ctx, core.Filter{}.Where("refresh_token_hash", hashToken(token)))
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, "", ErrInvalidToken
		}
		return User{}, "", err
	}
	if usr.RefreshTokenExpiresAt == nil || core.NowFunc().After(*usr.RefreshTokenExpiresAt) {
		return User{}, "", ErrTokenExpired
	}
	if !usr.Active() {
		return User{}, "", ErrAccountDeactivated
	}
	newToken, err := svc.IssueRefreshToken(ctx, &usr)
	return usr, newToken, err
}

// Logout revokes the refresh token of the User.
func (svc *Service) Logout(ctx context.Context, id int64) error {
	usr, err := svc.repo.Get(ctx, id)
	if err != nil {
		return errors.Wrap(err, "getting user")
	}
	usr.RefreshTokenHash, usr.RefreshTokenExpiresAt = nil, nil
	return svc.save(ctx, &usr)
}

type resetMailData struct {
	Username  string
	Token     string
	ExpiresIn string
}

// RequestPasswordReset mails a reset link to the active users of the person owning email.
// core.ErrNotFound is returned when no such user exists.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = core.CleanString(email, true /* lower */)
	persons, _, err := svc.persons.Query(ctx, core.Filter{}.Where("email", email), core.All)
	if err != nil {
		return errors.Wrap(err, "querying persons")
	}
	var sent bool
	for _, p := range persons {
		users, _, err := svc.repo.Query(ctx, core.Filter{}.Where("pessoa_id", p.ID), core.All)
		if err != nil {
			return errors.Wrap(err, "querying users")
		}
		for _, usr := range users {
			if !usr.Active() {
				continue
			}
			if err := svc.sendPasswordResetMail(ctx, usr, p); err != nil {
				return err
			}
			sent = true
		}
	}
	if !sent {
		return core.ErrNotFound
	}
	return nil
}

func (svc *Service) sendPasswordResetMail(ctx context.Context, usr User, p person.Person) error {
	token, err := svc.tokens.makeToken(usr)
	if err != nil {
		return errors.Wrap(err, "making reset token")
	}
	hash := hashToken(token)
	exp := core.NowFunc().UTC().Add(svc.conf.PasswordResetTimeoutDelta)
	usr.ResetTokenHash, usr.ResetTokenExpiresAt = &hash, &exp
	if err := svc.save(ctx, &usr); err != nil {
		return errors.Wrap(err, "storing reset token")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: p.FullName, Address: *p.Email}},
		Subject:      "Redefinição de senha",
		TemplateName: "password_reset",
		TemplateData: resetMailData{
			Username:  usr.Username,
			Token:     token,
			ExpiresIn: formatDuration(svc.conf.PasswordResetTimeoutDelta),
		},
	})
	return nil
}

// ResetPassword sets a new password using a token sent by RequestPasswordReset. Tokens are single use.
func (svc *Service) ResetPassword(ctx context.Context, rp ResetPasswordRequest) error {
	id, err := parseUID(rp.Token)
	if err != nil {
		return tokenError(err)
	}
	usr, err := svc.repo.Get(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return tokenError(ErrInvalidToken)
		}
		return errors.Wrap(err, "getting user")
	}
	if err := svc.tokens.verifyToken(usr, rp.Token); err != nil {
		return tokenError(err)
	}
	if usr.ResetTokenHash == nil || *usr.ResetTokenHash != hashToken(rp.Token) {
		return tokenError(ErrInvalidToken)
	}
	if usr.ResetTokenExpiresAt != nil && core.NowFunc().After(*usr.ResetTokenExpiresAt) {
		return tokenError(ErrTokenExpired)
	}
	if tag := CheckPasswordPolicy(rp.Password, usr.Username); tag != "" {
		return core.NewValidationError(nil, core.FieldError{Field: "password", Error: PasswordPolicyText(tag)})
	}

	if err := usr.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.ResetTokenHash, usr.ResetTokenExpiresAt = nil, nil
	usr.RefreshTokenHash, usr.RefreshTokenExpiresAt = nil, nil
	return svc.save(ctx, &usr)
}

// ChangePassword sets a new password for a logged in User.
func (svc *Service) ChangePassword(ctx context.Context, id int64, cp ChangePasswordRequest) error {
	usr, err := svc.repo.Get(ctx, id)
	if err != nil {
		return errors.Wrap(err, "getting user")
	}
	if err := usr.CheckPassword(cp.CurrentPassword); err != nil {
		return core.NewValidationError(ErrWrongPassword, core.FieldError{Field: "currentPassword", Error: ErrWrongPassword.Error()})
	}
	if err := usr.SetPassword(cp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.save(ctx, &usr)
}

func tokenError(err error) error {
	return core.NewValidationError(err, core.FieldError{Field: "token", Error: err.Error()})
}

func formatDuration(d time.Duration) string {
	if d >= 24*time.Hour && d%(24*time.Hour) == 0 {
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "1 dia"
		}
		return strconv.Itoa(days) + " dias"
	}
	return d.String()
}
