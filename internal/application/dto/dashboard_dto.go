package dto

// AdminStats contadores del panel de administración.
type AdminStats struct {
	Accounts         int                `json:"accounts"`
	ByRole           map[string]int     `json:"by_role"`
	ByStatus         map[string]int     `json:"by_status"`
	PendingApproval  int                `json:"pending_approval"`
	PendingVerify    int                `json:"pending_verification"`
	VerifiedProfiles map[string]int     `json:"verified_profiles"`
	Companies        int                `json:"companies"`
	Products         int                `json:"products"`
	RecentActivity   []AuditLogResponse `json:"recent_activity"`
}

// PartnerDashboard resumen para distribuidores y minoristas.
type PartnerDashboard struct {
	Account   AccountResponse  `json:"account"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
	Companies int              `json:"companies"`
	Products  int              `json:"products"`
	CanTrade  bool             `json:"can_trade"`
	Missing   []string         `json:"missing_documents,omitempty"`
}
