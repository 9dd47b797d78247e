package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo perfiles de distribuidores y minoristas (tabla profiles).
// documents y terms se guardan como JSONB.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador de persistencia para perfiles.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

const profileColumns = `p.id, p.account_id, p.role, p.business_name, p.trade_name, p.gst_number, p.pan,
	p.business_category, p.address_line1, p.address_line2, p.city, p.state, p.pincode, p.phone, p.email,
	p.license_number, p.license_type, p.license_expiry, p.license_verified, p.documents,
	p.verification_notes, p.is_verified, p.verified_at, p.verified_by, p.terms, p.created_at, p.updated_at`

type termsDoc struct {
	Distributor *entity.DistributorTerms `json:"distributor,omitempty"`
	Retailer    *entity.RetailerTerms    `json:"retailer,omitempty"`
}

func scanProfile(row rowScanner) (*entity.Profile, error) {
	var p entity.Profile
	var role string
	var docs, terms []byte
	err := row.Scan(
		&p.ID, &p.AccountID, &role, &p.BusinessName, &p.TradeName, &p.GSTNumber, &p.PAN,
		&p.BusinessCategory, &p.Address.Line1, &p.Address.Line2, &p.Address.City, &p.Address.State,
		&p.Address.Pincode, &p.Phone, &p.Email,
		&p.License.Number, &p.License.Type, &p.License.Expiry, &p.License.Verified, &docs,
		&p.VerificationNotes, &p.IsVerified, &p.VerifiedAt, &p.VerifiedBy, &terms, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Role = entity.Role(role)
	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &p.Documents); err != nil {
			return nil, fmt.Errorf("decode documents: %w", err)
		}
	}
	if len(terms) > 0 {
		var t termsDoc
		if err := json.Unmarshal(terms, &t); err != nil {
			return nil, fmt.Errorf("decode terms: %w", err)
		}
		p.Distributor, p.Retailer = t.Distributor, t.Retailer
	}
	return &p, nil
}

func encodeDocs(docs []entity.Document) ([]byte, error) {
	if docs == nil {
		docs = []entity.Document{}
	}
	return json.Marshal(docs)
}

// Create persiste un perfil nuevo. Un segundo perfil para la misma cuenta -> domain.ErrDuplicate.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	docs, err := encodeDocs(p.Documents)
	if err != nil {
		return err
	}
	terms, err := json.Marshal(termsDoc{Distributor: p.Distributor, Retailer: p.Retailer})
	if err != nil {
		return err
	}
	query := `
		INSERT INTO profiles (id, account_id, role, business_name, trade_name, gst_number, pan,
			business_category, address_line1, address_line2, city, state, pincode, phone, email,
			license_number, license_type, license_expiry, license_verified, documents,
			verification_notes, is_verified, verified_at, verified_by, terms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24, $25, $26, $27)`
	_, err = r.q.Exec(ctx, query,
		p.ID, p.AccountID, string(p.Role), p.BusinessName, p.TradeName, p.GSTNumber, p.PAN,
		p.BusinessCategory, p.Address.Line1, p.Address.Line2, p.Address.City, p.Address.State, p.Address.Pincode,
		p.Phone, p.Email, p.License.Number, p.License.Type, p.License.Expiry, p.License.Verified, docs,
		p.VerificationNotes, p.IsVerified, p.VerifiedAt, p.VerifiedBy, terms, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByID obtiene un perfil por ID.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	p, err := scanProfile(r.q.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles p WHERE p.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// GetByAccountID obtiene el perfil de una cuenta.
func (r *ProfileRepo) GetByAccountID(ctx context.Context, accountID string) (*entity.Profile, error) {
	p, err := scanProfile(r.q.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles p WHERE p.account_id = $1`, accountID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by account: %w", err)
	}
	return p, nil
}

// List lista perfiles filtrados; is_active se resuelve contra el estado de la cuenta.
func (r *ProfileRepo) List(ctx context.Context, f repository.ProfileFilter, pg repository.Page) ([]*entity.Profile, int, error) {
	var c conds
	if f.Role != "" {
		c.add("p.role = ?", string(f.Role))
	}
	if f.Search != "" {
		c.add(`(p.business_name ILIKE ? OR p.trade_name ILIKE ? OR p.gst_number ILIKE ? OR p.email ILIKE ?)`, likePattern(f.Search))
	}
	if f.City != "" {
		c.add("p.city ILIKE ?", likePattern(f.City))
	}
	if f.IsVerified != nil {
		c.add("p.is_verified = ?", *f.IsVerified)
	}
	if f.IsActive != nil {
		if *f.IsActive {
			c.add("a.status <> ?", string(entity.StatusDeactivated))
		} else {
			c.add("a.status = ?", string(entity.StatusDeactivated))
		}
	}
	from := ` FROM profiles p JOIN accounts a ON a.id = p.account_id`

	total, err := count(ctx, r.q, `SELECT COUNT(*)`+from+c.where(), c.args)
	if err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}
	limit, args := c.page(pg.Limit, pg.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+profileColumns+from+c.where()+` ORDER BY p.created_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Update persiste datos de negocio, dirección y condiciones comerciales.
func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	terms, err := json.Marshal(termsDoc{Distributor: p.Distributor, Retailer: p.Retailer})
	if err != nil {
		return err
	}
	query := `
		UPDATE profiles SET business_name = $2, trade_name = $3, gst_number = $4, pan = $5,
			business_category = $6, address_line1 = $7, address_line2 = $8, city = $9, state = $10,
			pincode = $11, phone = $12, email = $13, terms = $14, updated_at = $15
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.BusinessName, p.TradeName, p.GSTNumber, p.PAN, p.BusinessCategory,
		p.Address.Line1, p.Address.Line2, p.Address.City, p.Address.State, p.Address.Pincode,
		p.Phone, p.Email, terms, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// SaveSubmission fija licencia y GST y agrega documentos con el operador || de JSONB.
func (r *ProfileRepo) SaveSubmission(ctx context.Context, p *entity.Profile, docs []entity.Document) error {
	newDocs, err := encodeDocs(docs)
	if err != nil {
		return err
	}
	query := `
		UPDATE profiles SET license_number = $2, license_type = $3, license_expiry = $4,
			license_verified = FALSE, gst_number = $5, documents = documents || $6::jsonb, updated_at = $7
		WHERE account_id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.AccountID, p.License.Number, p.License.Type, p.License.Expiry, p.GSTNumber, newDocs, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// SetVerification fija el resultado de la verificación. Aprobado también marca la licencia.
func (r *ProfileRepo) SetVerification(ctx context.Context, accountID string, verified bool, notes, by string, at time.Time) error {
	var verifiedAt *time.Time
	if verified {
		verifiedAt = &at
	}
	query := `
		UPDATE profiles SET is_verified = $2, license_verified = $2, verification_notes = $3,
			verified_at = $4, verified_by = $5, updated_at = $6
		WHERE account_id = $1`
	cmd, err := r.q.Exec(ctx, query, accountID, verified, notes, verifiedAt, by, at)
	if err != nil {
		return fmt.Errorf("set verification: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// CountVerified cuenta perfiles verificados del rol.
func (r *ProfileRepo) CountVerified(ctx context.Context, role entity.Role) (int, error) {
	n, err := count(ctx, r.q, `SELECT COUNT(*) FROM profiles WHERE role = $1 AND is_verified`, []any{string(role)})
	if err != nil {
		return 0, fmt.Errorf("count verified profiles: %w", err)
	}
	return n, nil
}
