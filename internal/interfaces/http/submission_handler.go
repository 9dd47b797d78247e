package http

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/application/ports"
	"github.com/jhoicas/Pharmahub-api/internal/application/transition"
	"github.com/jhoicas/Pharmahub-api/internal/application/usecase"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/internal/domain/lifecycle"
)

// SubmissionHandler carga de licencia y documentos (/api/complete-profile).
type SubmissionHandler struct {
	profiles    *usecase.ProfileUseCase
	transitions *transition.Service
	files       ports.FileStorage
	maxBytes    int64
}

// NewSubmissionHandler maxMB es el tamaño máximo por archivo.
func NewSubmissionHandler(profiles *usecase.ProfileUseCase, transitions *transition.Service, files ports.FileStorage, maxMB int) *SubmissionHandler {
	if maxMB <= 0 {
		maxMB = 10
	}
	return &SubmissionHandler{profiles: profiles, transitions: transitions, files: files, maxBytes: int64(maxMB) << 20}
}

// Requirements godoc
// @Summary      Requisitos de documentos y licencia del rol
// @Tags         complete-profile
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=dto.RequirementsResponse}
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/complete-profile/requirements [get]
func (h *SubmissionHandler) Requirements(c *fiber.Ctx) error {
	out, err := h.profiles.Requirements(c.UserContext(), GetAccountID(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Submit godoc
// @Summary      Enviar licencia y documentos
// @Description  multipart/form-data: campo licenseData (JSON) y un archivo por tipo de documento
// @Description  (drug_license, gst_certificate, pan_card, trade_license, shop_photo).
// @Tags         complete-profile
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        licenseData  formData  string  true  "JSON con drug_license_number, drug_license_type, drug_license_expiry, gst_number"
// @Success      200  {object}  dto.Envelope{data=dto.AccountResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/complete-profile [post]
func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	acc := CurrentAccount(c)
	if acc == nil {
		return domain.ErrUnauthenticated
	}
	req, err := lifecycle.RequirementsFor(acc.Role)
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "se esperaba multipart/form-data")
	}

	lic, err := licenseFrom(form)
	if err != nil {
		return err
	}
	if err := lic.Validate(); err != nil {
		return err
	}
	expiry, err := dto.ParseDate(lic.DrugLicenseExpiry)
	if err != nil {
		return err
	}

	// Un archivo por tipo; los campos que no son documentos del rol se ignoran.
	var uploads []upload
	for _, d := range req.Documents() {
		files := form.File[d.Type]
		if len(files) == 0 {
			continue
		}
		fh := files[0]
		if fh.Size > h.maxBytes {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge,
				fmt.Sprintf("%s supera el máximo de %d MB", d.Type, h.maxBytes>>20))
		}
		uploads = append(uploads, upload{docType: d.Type, file: fh})
	}

	data := transition.LicenseData{
		Number:    strings.TrimSpace(lic.DrugLicenseNumber),
		Type:      strings.TrimSpace(lic.DrugLicenseType),
		Expiry:    expiry,
		GSTNumber: strings.ToUpper(strings.TrimSpace(lic.GSTNumber)),
	}
	types := make([]string, 0, len(uploads))
	for _, u := range uploads {
		types = append(types, u.docType)
	}
	// Estado y requisitos se validan antes de tocar el almacenamiento.
	if err := h.transitions.CheckSubmission(c.UserContext(), acc.ID, data, types); err != nil {
		return err
	}

	// TODO: borrar los archivos ya subidos si el estado cambia entre CheckSubmission y SubmitDocuments.
	docs := make([]entity.Document, 0, len(uploads))
	for _, u := range uploads {
		doc, err := h.store(c, acc.ID, u)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	out, err := h.transitions.SubmitDocuments(c.UserContext(), acc.ID, data, docs)
	if err != nil {
		return err
	}
	return okMessage(c, dto.NewAccountResponse(out), "documentos recibidos; la cuenta queda pendiente de verificación")
}

type upload struct {
	docType string
	file    *multipart.FileHeader
}

// licenseFrom lee licenseData como JSON; sin él, toma los campos sueltos del formulario.
func licenseFrom(form *multipart.Form) (dto.SubmitLicenseData, error) {
	var lic dto.SubmitLicenseData
	if raw := form.Value["licenseData"]; len(raw) > 0 && strings.TrimSpace(raw[0]) != "" {
		if err := json.Unmarshal([]byte(raw[0]), &lic); err != nil {
			return lic, fiber.NewError(fiber.StatusBadRequest, "licenseData no es JSON válido")
		}
		return lic, nil
	}
	lic.DrugLicenseNumber = first(form.Value["drug_license_number"])
	lic.DrugLicenseType = first(form.Value["drug_license_type"])
	lic.DrugLicenseExpiry = first(form.Value["drug_license_expiry"])
	lic.GSTNumber = first(form.Value["gst_number"])
	return lic, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// store clave <cuenta>/<tipo>/<uuid><ext>.
func (h *SubmissionHandler) store(c *fiber.Ctx, accountID string, u upload) (entity.Document, error) {
	f, err := u.file.Open()
	if err != nil {
		return entity.Document{}, fmt.Errorf("abrir %s: %w", u.docType, err)
	}
	defer f.Close()

	key := accountID + "/" + u.docType + "/" + uuid.New().String() + strings.ToLower(filepath.Ext(u.file.Filename))
	location, err := h.files.Save(c.UserContext(), key, u.file.Header.Get(fiber.HeaderContentType), f)
	if err != nil {
		return entity.Document{}, fmt.Errorf("guardar %s: %w", u.docType, err)
	}
	return entity.Document{
		Type:       u.docType,
		Location:   location,
		FileName:   filepath.Base(u.file.Filename),
		UploadedAt: time.Now().UTC(),
	}, nil
}
