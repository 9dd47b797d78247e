package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Pharmahub-api/internal/application/activity"
	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/application/ports"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/access"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
	"github.com/jhoicas/Pharmahub-api/pkg/jwt"
	"github.com/jhoicas/Pharmahub-api/pkg/logger"
)

// BcryptCost costo de hash de contraseñas.
const BcryptCost = 12

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y sesión actual.
type AuthUseCase struct {
	tx     repository.TxRunner
	repos  repository.Repos
	gate   *access.Gate
	events ports.EventPublisher
	jwtCfg JWTConfig
	log    *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(tx repository.TxRunner, repos repository.Repos, gate *access.Gate, events ports.EventPublisher, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{tx: tx, repos: repos, gate: gate, events: events, jwtCfg: jwtCfg, log: log}
}

// Register auto-registro de distribuidor o minorista: cuenta y perfil en una sola transacción.
// La cuenta nace en pending_approval.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest, by activity.Actor) (*dto.AccountResponse, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	acc, err := Provision(ctx, uc.tx, in, by, entity.AuditAccountRegistered, uc.events, uc.log)
	if err != nil {
		return nil, err
	}
	out := dto.NewAccountResponse(acc)
	return &out, nil
}

// Provision crea cuenta (y perfil si el rol lo requiere) con auditoría en la misma transacción.
// in ya debe venir normalizado y validado. El evento account.registered se publica tras el commit.
func Provision(ctx context.Context, tx repository.TxRunner, in dto.RegisterRequest, by activity.Actor, action string, events ports.EventPublisher, log *logger.Logger) (*entity.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), BcryptCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	role := entity.Role(in.Role)
	acc := &entity.Account{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Phone:        dto.NormalizePhone(in.Phone),
		Role:         role,
		Status:       entity.InitialStatus(role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var box activity.Outbox
	err = tx.Run(ctx, func(r repository.Repos) error {
		existing, err := r.Accounts.GetByEmail(ctx, acc.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := r.Accounts.Create(ctx, acc); err != nil {
			return err
		}
		if role.HasProfile() {
			p := &entity.Profile{
				ID:           uuid.New().String(),
				AccountID:    acc.ID,
				Role:         role,
				BusinessName: in.BusinessName(),
				TradeName:    in.TradeName,
				GSTNumber:    in.GSTNumber,
				PAN:          in.PAN,
				Address: entity.Address{
					Line1:   strings.TrimSpace(in.Address),
					City:    in.City,
					State:   in.State,
					Pincode: in.Pincode,
				},
				Phone:     acc.Phone,
				Email:     acc.Email,
				Documents: []entity.Document{},
				CreatedAt: now,
				UpdatedAt: now,
			}
			p.DefaultTermsFor(role)
			if err := r.Profiles.Create(ctx, p); err != nil {
				return err
			}
		}
		if by.ID == "" {
			by = activity.Actor{ID: acc.ID, Role: role, IPAddress: by.IPAddress, UserAgent: by.UserAgent}
		}
		if err := activity.Audit(ctx, r.Audit, by, action, entity.EntityAccount, acc.ID,
			map[string]any{"email": acc.Email, "role": role, "status": acc.Status}, now); err != nil {
			return err
		}
		box.Add(ports.Event{Type: ports.EventAccountRegistered, EntityID: acc.ID, ActorID: by.ID, OccurredAt: now,
			Data: map[string]any{"role": role, "status": acc.Status}})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	box.Flush(ctx, events, log)
	log.Info().Str("account_id", acc.ID).Str("role", string(role)).Msg("cuenta creada")
	return acc, nil
}

// Login valida credenciales y emite un JWT. Solo las cuentas desactivadas no pueden entrar;
// el resto se enruta por estado con el gate de acceso.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	acc, err := uc.repos.Accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !acc.IsActive() {
		return nil, domain.ErrAccountDeactivated
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, acc.ID, string(acc.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := uc.repos.Accounts.TouchLastLogin(ctx, acc.ID, now); err != nil {
		uc.log.Warn().Err(err).Str("account_id", acc.ID).Msg("no se pudo registrar último login")
	} else {
		acc.LastLoginAt = &now
	}
	return &dto.LoginResponse{
		Token:   token,
		Account: dto.NewAccountResponse(acc),
		Landing: uc.Landing(acc),
	}, nil
}

// Me cuenta autenticada con su perfil.
func (uc *AuthUseCase) Me(ctx context.Context, accountID string) (*dto.MeResponse, error) {
	acc, err := uc.repos.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}
	out := &dto.MeResponse{Account: dto.NewAccountResponse(acc), Landing: uc.Landing(acc)}
	if acc.Role.HasProfile() {
		p, err := uc.repos.Profiles.GetByAccountID(ctx, acc.ID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			pr := dto.NewProfileResponse(p, nil)
			out.Profile = &pr
		}
	}
	return out, nil
}

// Landing ruta a la que el portal debe llevar a la cuenta según su estado actual.
func (uc *AuthUseCase) Landing(acc *entity.Account) string {
	dash := uc.gate.Dashboard(acc.Role)
	d := uc.gate.Decide(&access.Identity{AccountID: acc.ID, Role: acc.Role, Status: acc.Status}, dash)
	if d.Kind == access.Allow {
		return dash
	}
	return d.Location
}
