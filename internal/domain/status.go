// Project lifecycle states and transition rules.
//
// A project moves through the pipeline
//
//	PENDING → PROCESSING → (COPY_READY | COPY_REVISION)
//	        → (HTML_READY | HTML_REVISION) → PREVIEW
//	        → (APPROVED | REVISION) → COMPLETED | PUBLISHED | CANCELLED
//
// Some operations gate strictly on the current status (approve-briefing,
// cancel, client approval, webhook dispatch); the admin content operations
// (copy/HTML save, regenerate, revision requests) deliberately accept any
// current status (the admin-override rule). Guards live here so the service
// layer and tests share one source of truth.
package domain

// ProjectStatus is the lifecycle state of a Project.
type ProjectStatus string

// Project lifecycle states.
const (
	StatusPending      ProjectStatus = "PENDING"
	StatusProcessing   ProjectStatus = "PROCESSING"
	StatusCopyReady    ProjectStatus = "COPY_READY"
	StatusCopyRevision ProjectStatus = "COPY_REVISION"
	StatusHTMLReady    ProjectStatus = "HTML_READY"
	StatusHTMLRevision ProjectStatus = "HTML_REVISION"
	StatusPreview      ProjectStatus = "PREVIEW"
	StatusApproved     ProjectStatus = "APPROVED"
	StatusRevision     ProjectStatus = "REVISION"
	StatusCompleted    ProjectStatus = "COMPLETED"
	StatusPublished    ProjectStatus = "PUBLISHED"
	StatusCancelled    ProjectStatus = "CANCELLED"
)

// allStatuses is the closed set of legal ProjectStatus values.
var allStatuses = map[ProjectStatus]struct{}{
	StatusPending:      {},
	StatusProcessing:   {},
	StatusCopyReady:    {},
	StatusCopyRevision: {},
	StatusHTMLReady:    {},
	StatusHTMLRevision: {},
	StatusPreview:      {},
	StatusApproved:     {},
	StatusRevision:     {},
	StatusCompleted:    {},
	StatusPublished:    {},
	StatusCancelled:    {},
}

// Valid reports whether s is one of the enumerated lifecycle states.
func (s ProjectStatus) Valid() bool {
	_, ok := allStatuses[s]
	return ok
}

// adminSettable is the subset of states an admin may force directly through
// the set-status endpoint.
var adminSettable = map[ProjectStatus]struct{}{
	StatusPending:    {},
	StatusProcessing: {},
	StatusPreview:    {},
	StatusApproved:   {},
	StatusRevision:   {},
	StatusPublished:  {},
	StatusCancelled:  {},
}

// AdminSettable reports whether an admin may force s via the set-status
// endpoint.
func (s ProjectStatus) AdminSettable() bool {
	_, ok := adminSettable[s]
	return ok
}

// CanApproveBriefing reports whether a briefing in state s may be approved
// by an admin. Only freshly submitted projects qualify.
func CanApproveBriefing(s ProjectStatus) bool { return s == StatusPending }

// CanCancel reports whether the owning client may cancel a project in state
// s. Cancellation is limited to projects the pipeline has not picked up.
func CanCancel(s ProjectStatus) bool { return s == StatusPending }

// CanClientApprove reports whether the owning client may approve the
// generated page. Approval requires the project to be in client preview.
func CanClientApprove(s ProjectStatus) bool { return s == StatusPreview }

// CanGenerateHTML reports whether HTML generation may be triggered for a
// project in state s. Production kicks it off from PROCESSING; admins may
// also trigger it once the copy stage has finished.
func CanGenerateHTML(s ProjectStatus) bool {
	return s == StatusProcessing || s == StatusCopyReady
}

// CanDispatchWebhook reports whether an approved project may be forwarded
// to the external automation endpoint.
func CanDispatchWebhook(s ProjectStatus) bool { return s == StatusApproved }

// Notification types emitted by the status engine.
const (
	NotifBriefingSubmitted = "BRIEFING_SUBMITTED"
	NotifBriefingApproved  = "BRIEFING_APPROVED"
	NotifCopyReady         = "COPY_READY"
	NotifCopyRevision      = "COPY_REVISION"
	NotifHTMLReady         = "HTML_READY"
	NotifHTMLRevision      = "HTML_REVISION"
	NotifPreviewReady      = "PREVIEW_READY"
	NotifProjectApproved   = "PROJECT_APPROVED"
	NotifRevisionRequested = "REVISION_REQUESTED"
	NotifProjectCancelled  = "PROJECT_CANCELLED"
	NotifStatusChanged     = "STATUS_CHANGED"
	NotifProjectCompleted  = "PROJECT_COMPLETED"
	NotifProjectPublished  = "PROJECT_PUBLISHED"
	NotifGenerationFailed  = "GENERATION_FAILED"
	NotifWebhookFailed     = "WEBHOOK_FAILED"
	NotifWebhookTimeout    = "WEBHOOK_TIMEOUT"
)

// StatusMessage returns the user-facing notification text for a forced or
// callback-supplied status change. Unknown states fall back to a generic
// message so machine callbacks can never produce an empty notification.
func StatusMessage(s ProjectStatus) (typ, title, message string) {
	switch s {
	case StatusPending:
		return NotifStatusChanged, "Project queued", "Your project returned to the queue and awaits review."
	case StatusProcessing:
		return NotifStatusChanged, "Project in production", "Your project is being worked on."
	case StatusPreview:
		return NotifPreviewReady, "Preview ready", "A preview of your landing page is ready for review."
	case StatusApproved:
		return NotifProjectApproved, "Project approved", "Your project was approved and will be finalized."
	case StatusRevision:
		return NotifRevisionRequested, "Revision in progress", "Your revision request is being handled."
	case StatusCompleted:
		return NotifProjectCompleted, "Project completed", "Your landing page has been generated."
	case StatusPublished:
		return NotifProjectPublished, "Project published", "Your landing page is live."
	case StatusCancelled:
		return NotifProjectCancelled, "Project cancelled", "Your project has been cancelled."
	default:
		return NotifStatusChanged, "Project updated", "Your project status changed to " + string(s) + "."
	}
}
