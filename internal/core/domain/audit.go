package domain

import "time"

// Audit actions and modules. Kept as plain strings in the event so the sink
// never needs to resolve enums.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
	AuditActionLogin  = "LOGIN"
	AuditActionLogout = "LOGOUT"

	AuditModuleUser = "USER"
	AuditModuleRole = "ROLE"
	AuditModuleMenu = "MENU"
	AuditModuleAuth = "AUTH"
)

// AuditEvent is one immutable record in the audit trail. Actor fields are
// denormalized so the record survives user deletion.
type AuditEvent struct {
	ActorID    int64     `json:"actor_id" bson:"actor_id"`
	Actor      string    `json:"actor" bson:"actor"`
	Action     string    `json:"action" bson:"action"`
	Module     string    `json:"module" bson:"module"`
	ResourceID string    `json:"resource_id,omitempty" bson:"resource_id,omitempty"`
	Detail     string    `json:"detail,omitempty" bson:"detail,omitempty"`
	Success    bool      `json:"success" bson:"success"`
	Message    string    `json:"message,omitempty" bson:"message,omitempty"`
	IP         string    `json:"ip,omitempty" bson:"ip,omitempty"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}
