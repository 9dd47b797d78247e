// Package access decide, en cada petición, si una identidad puede abrir una ruta.
// Decide es una función pura: no consulta almacenamiento ni guarda estado.
package access

import (
	"strings"

	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
)

// Kind resultado de una decisión.
type Kind string

const (
	Allow           Kind = "allow"
	Redirect        Kind = "redirect"
	Unauthenticated Kind = "unauthenticated"
)

// Motivos informativos que acompañan una redirección.
const (
	ReasonRejected    = "rejected"
	ReasonDeactivated = "deactivated"
	ReasonPending     = "pending_approval"
	ReasonDocuments   = "pending_documents"
	ReasonForbidden   = "forbidden_path"
)

// Decision resultado de Decide. Location solo aplica a Redirect y Unauthenticated.
type Decision struct {
	Kind     Kind   `json:"decision"`
	Location string `json:"location,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Identity identidad autenticada con su estado vigente al momento de la petición.
type Identity struct {
	AccountID string
	Role      entity.Role
	Status    entity.Status
}

// Routes rutas conocidas por el gate.
type Routes struct {
	Login          string
	Register       string
	PendingNotice  string
	DocumentUpload string
	AuthPrefix     string
	APIPrefix      string // rutas de la API: mismas reglas que la página, sin la de archivos
	DashboardLeaf  string
	RoleRoots      map[entity.Role]string
	StaticPrefixes []string
}

// DefaultRoutes rutas del portal web.
func DefaultRoutes() Routes {
	return Routes{
		Login:          "/login",
		Register:       "/register",
		PendingNotice:  "/pending-approval",
		DocumentUpload: "/complete-profile",
		AuthPrefix:     "/auth",
		APIPrefix:      "/api",
		DashboardLeaf:  "dashboard",
		RoleRoots: map[entity.Role]string{
			entity.RoleAdmin:       "/admin",
			entity.RoleDistributor: "/distributor",
			entity.RoleRetailer:    "/retailer",
		},
		StaticPrefixes: []string{"/_next", "/static", "/favicon.ico"},
	}
}

// Gate evalúa las reglas de acceso en orden; la primera que aplica gana.
type Gate struct {
	routes Routes
}

// NewGate construye el gate con las rutas dadas.
func NewGate(routes Routes) *Gate {
	return &Gate{routes: routes}
}

// Routes devuelve la configuración de rutas.
func (g *Gate) Routes() Routes { return g.routes }

// Dashboard ruta del tablero del rol, ej. /retailer/dashboard.
func (g *Gate) Dashboard(role entity.Role) string {
	root, ok := g.routes.RoleRoots[role]
	if !ok {
		return g.routes.Login
	}
	return root + "/" + g.routes.DashboardLeaf
}

// Decide mapea (identidad, ruta) a Allow, Redirect o Unauthenticated.
// id == nil significa petición sin identidad. /api/<x> se evalúa como la página /<x>.
func (g *Gate) Decide(id *Identity, path string) Decision {
	path = normalize(path)
	r := g.routes
	api := under(path, r.APIPrefix)
	if api {
		path = normalize(strings.TrimPrefix(path, r.APIPrefix))
	}

	if path == "/" {
		if id == nil || !g.known(id) {
			return redirect(r.Login, "")
		}
		return redirect(g.Dashboard(id.Role), "")
	}

	if g.public(path, api) {
		return Decision{Kind: Allow}
	}

	if id == nil || !g.known(id) {
		return Decision{Kind: Unauthenticated, Location: r.Login + "?callbackUrl=" + callbackEscaper.Replace(path)}
	}

	switch id.Status {
	case entity.StatusDeactivated:
		return redirect(r.PendingNotice, ReasonDeactivated)
	case entity.StatusRejected:
		return redirect(r.PendingNotice, ReasonRejected)
	case entity.StatusPendingApproval:
		return redirect(r.PendingNotice, ReasonPending)
	case entity.StatusPendingDocuments:
		if under(path, r.DocumentUpload) {
			return Decision{Kind: Allow}
		}
		return redirect(r.DocumentUpload, ReasonDocuments)
	case entity.StatusPendingVerification:
		if under(path, r.RoleRoots[id.Role]) || under(path, r.DocumentUpload) {
			return Decision{Kind: Allow}
		}
		return redirect(g.Dashboard(id.Role), ReasonForbidden)
	}

	// active
	if under(path, r.RoleRoots[id.Role]) {
		return Decision{Kind: Allow}
	}
	if id.Role != entity.RoleAdmin && under(path, r.DocumentUpload) {
		return Decision{Kind: Allow}
	}
	return redirect(g.Dashboard(id.Role), ReasonForbidden)
}

func (g *Gate) known(id *Identity) bool {
	_, ok := g.routes.RoleRoots[id.Role]
	return ok && id.Status.Valid()
}

func (g *Gate) public(path string, api bool) bool {
	r := g.routes
	if path == r.Login || path == r.Register || path == r.PendingNotice {
		return true
	}
	if under(path, r.AuthPrefix) {
		return true
	}
	for _, p := range r.StaticPrefixes {
		if under(path, p) {
			return true
		}
	}
	if api {
		return false
	}
	last := path[strings.LastIndex(path, "/")+1:]
	return strings.Contains(last, ".")
}

func redirect(location, reason string) Decision {
	return Decision{Kind: Redirect, Location: location, Reason: reason}
}

func under(path, root string) bool {
	if root == "" {
		return false
	}
	return path == root || strings.HasPrefix(path, root+"/")
}

// normalize descarta query y fragmento y garantiza la barra inicial.
func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

// callbackEscaper escapa lo que rompería el valor de callbackUrl; las barras se conservan.
var callbackEscaper = strings.NewReplacer("%", "%25", "&", "%26", " ", "%20", "+", "%2B", "#", "%23")
