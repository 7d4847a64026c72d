// Package domain defines the persistence models for the briefing pipeline:
// users, projects and their briefings, notifications, audit logs, AI provider
// configuration, prompt templates, usage accounting, machine API keys, and
// the support-ticket subsystem. These types are mapped with GORM and form
// the core data layer of the application.
package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role labels a human account as a regular client or a platform admin.
type Role string

// User roles.
const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents a human account. Password holds a bcrypt hash and is never
// serialized. Role changes go through a dedicated admin endpoint.
type User struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Email     string         `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex"`
	Password  string         `json:"-"          gorm:"type:varchar(255);not null"`
	Name      string         `json:"name"       gorm:"type:varchar(255)"`
	Role      Role           `json:"role"       gorm:"type:varchar(16);not null;default:'USER'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Project is a briefing submission and every artifact derived from it. It is
// the aggregate the status machine operates on and is never hard-deleted;
// cancellation is a terminal status plus the two cancellation fields.
//
// Data carries the raw briefing fields as JSON; Briefing is its typed 1:1
// counterpart. Copy and HTMLContent hold the generated artifacts, and the
// two feedback fields keep the text of the last revision request.
type Project struct {
	ID              string         `json:"id"               gorm:"type:char(36);primaryKey"`
	UserID          string         `json:"user_id"          gorm:"type:char(36);not null;index:idx_user_projects"`
	AssignedAdminID *string        `json:"assigned_admin_id,omitempty" gorm:"type:char(36);index"`
	Status          ProjectStatus  `json:"status"           gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Data            datatypes.JSON `json:"data"             gorm:"type:json"`
	Copy            string         `json:"copy"             gorm:"type:text"`
	HTMLContent     string         `json:"html_content"     gorm:"type:text"`
	CopyFeedback    string         `json:"copy_feedback"    gorm:"type:text"`
	HTMLFeedback    string         `json:"html_feedback"    gorm:"type:text"`
	PreviewURL      string         `json:"preview_url"      gorm:"type:varchar(2048)"`
	FinalURL        string         `json:"final_url"        gorm:"type:varchar(2048)"`
	CancelledAt     *time.Time     `json:"cancelled_at,omitempty"`
	CancelReason    string         `json:"cancel_reason"    gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Project.
func (Project) TableName() string { return "projects" }

// Briefing is the typed 1:1 counterpart of Project.Data. It is upserted
// whenever the client edits project content.
type Briefing struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	ProjectID      string    `json:"project_id"      gorm:"type:char(36);not null;uniqueIndex"`
	SiteName       string    `json:"site_name"       gorm:"type:varchar(255)"`
	BusinessType   string    `json:"business_type"   gorm:"type:varchar(255)"`
	Description    string    `json:"description"     gorm:"type:text"`
	TargetAudience string    `json:"target_audience" gorm:"type:text"`
	MainServices   string    `json:"main_services"   gorm:"type:text"`
	ContactInfo    string    `json:"contact_info"    gorm:"type:text"`
	BrandColors    string    `json:"brand_colors"    gorm:"type:varchar(255)"`
	Style          string    `json:"style"           gorm:"type:varchar(255)"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Project Project `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Briefing.
func (Briefing) TableName() string { return "briefings" }

// Notification is an at-most-once message to a user, optionally linked to a
// project. Writing the row is the platform's only push mechanism; delivery
// beyond the write is not guaranteed. Read/unread state and deletion are
// strictly scoped to the recipient.
type Notification struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null;index:idx_user_notifications"`
	ProjectID *string   `json:"project_id,omitempty" gorm:"type:char(36);index"`
	Type      string    `json:"type"       gorm:"type:varchar(64);not null"`
	Title     string    `json:"title"      gorm:"type:varchar(255);not null"`
	Message   string    `json:"message"    gorm:"type:text;not null"`
	Read      bool      `json:"read"       gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// ProjectLog is an append-only audit entry for a project. Rows are never
// mutated or deleted.
type ProjectLog struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	ProjectID   string         `json:"project_id"  gorm:"type:char(36);not null;index:idx_project_logs,priority:1"`
	UserID      string         `json:"user_id"     gorm:"type:char(36);not null"`
	Action      string         `json:"action"      gorm:"type:varchar(64);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Metadata    datatypes.JSON `json:"metadata"    gorm:"type:json"`
	CreatedAt   time.Time      `json:"created_at"  gorm:"index:idx_project_logs,priority:2"`
}

// TableName returns the database table name for ProjectLog.
func (ProjectLog) TableName() string { return "project_logs" }

// ChatMessage is one utterance in a project's client/admin thread.
type ChatMessage struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	ProjectID string    `json:"project_id" gorm:"type:char(36);not null;index:idx_project_msgs,priority:1"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_project_msgs,priority:2"`

	Project Project `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }

// AiConfig is one provider credential set. EncryptedKey is AES-GCM sealed;
// at most one row may be active, enforced transactionally by the service
// layer (deactivate-all plus activate in a single transaction).
type AiConfig struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	Provider     string    `json:"provider"      gorm:"type:varchar(32);not null"`
	EncryptedKey string    `json:"-"             gorm:"type:text;not null"`
	Model        string    `json:"model"         gorm:"type:varchar(128);not null"`
	MaxTokens    int       `json:"max_tokens"    gorm:"not null;default:4096"`
	Temperature  float64   `json:"temperature"   gorm:"not null;default:0.7"`
	IsActive     bool      `json:"is_active"     gorm:"not null;default:false;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for AiConfig.
func (AiConfig) TableName() string { return "ai_configs" }

// PromptTemplate is a named prompt with {{variable}} placeholders. Key
// uniqueness is enforced by the database, not by read-then-write checks.
type PromptTemplate struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Key        string    `json:"key"         gorm:"type:varchar(64);not null;uniqueIndex"`
	Name       string    `json:"name"        gorm:"type:varchar(255);not null"`
	Content    string    `json:"content"     gorm:"type:text;not null"`
	IsActive   bool      `json:"is_active"   gorm:"not null"`
	UsageCount int64     `json:"usage_count" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the database table name for PromptTemplate.
func (PromptTemplate) TableName() string { return "prompt_templates" }

// AiUsageLog records one AI call for billing/audit, success or failure.
// Append-only.
type AiUsageLog struct {
	ID               string    `json:"id"                gorm:"type:char(36);primaryKey"`
	ConfigID         string    `json:"config_id"         gorm:"type:char(36);index"`
	TemplateID       *string   `json:"template_id,omitempty" gorm:"type:char(36);index"`
	ProjectID        *string   `json:"project_id,omitempty"  gorm:"type:char(36);index"`
	UserID           *string   `json:"user_id,omitempty"     gorm:"type:char(36)"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	LatencyMS        int64     `json:"latency_ms"`
	Success          bool      `json:"success"           gorm:"not null"`
	Error            string    `json:"error,omitempty"   gorm:"type:text"`
	CreatedAt        time.Time `json:"created_at"        gorm:"index"`
}

// TableName returns the database table name for AiUsageLog.
func (AiUsageLog) TableName() string { return "ai_usage_logs" }

// ApiKey is a hashed bearer credential for machine callers (automation
// callbacks). The plaintext is shown once at creation; only the bcrypt hash
// is stored. Prefix keeps the first characters so keys stay identifiable in
// listings.
type ApiKey struct {
	ID          string         `json:"id"           gorm:"type:char(36);primaryKey"`
	Name        string         `json:"name"         gorm:"type:varchar(255);not null"`
	KeyHash     string         `json:"-"            gorm:"type:varchar(255);not null"`
	Prefix      string         `json:"prefix"       gorm:"type:varchar(16);not null"`
	Permissions datatypes.JSON `json:"permissions"  gorm:"type:json"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	// No column default: a default makes GORM drop the zero value on
	// insert, silently activating keys created with Active=false.
	Active      bool           `json:"active"       gorm:"not null;index"`
	LastUsedAt  *time.Time     `json:"last_used_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName returns the database table name for ApiKey.
func (ApiKey) TableName() string { return "api_keys" }

// TicketStatus enumerates support-ticket states.
type TicketStatus string

// Ticket states.
const (
	TicketOpen       TicketStatus = "OPEN"
	TicketInProgress TicketStatus = "IN_PROGRESS"
	TicketClosed     TicketStatus = "CLOSED"
)

// Ticket is a support request, independent of the project pipeline.
type Ticket struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:char(36);not null;index:idx_user_tickets"`
	Subject   string         `json:"subject"    gorm:"type:varchar(255);not null"`
	Status    TicketStatus   `json:"status"     gorm:"type:varchar(16);not null;default:'OPEN';index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Ticket.
func (Ticket) TableName() string { return "tickets" }

// TicketMessage is one entry in a ticket's thread.
type TicketMessage struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	TicketID  string    `json:"ticket_id" gorm:"type:char(36);not null;index:idx_ticket_msgs,priority:1"`
	UserID    string    `json:"user_id"   gorm:"type:char(36);not null"`
	Content   string    `json:"content"   gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_ticket_msgs,priority:2"`

	Ticket Ticket `json:"-" gorm:"foreignKey:TicketID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for TicketMessage.
func (TicketMessage) TableName() string { return "ticket_messages" }

// SystemConfig is a key/value settings row (e.g. webhook URL override).
type SystemConfig struct {
	Key       string    `json:"key"   gorm:"type:varchar(64);primaryKey"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for SystemConfig.
func (SystemConfig) TableName() string { return "system_configs" }
