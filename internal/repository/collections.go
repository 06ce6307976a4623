package repository

const (
	usersCollection          = "users"
	membersCollection        = "members"
	controlCentersCollection = "control_centers"
	timeTrackingsCollection  = "time_trackings"
	groupsCollection         = "groups"
	departmentsCollection    = "departments"
	vehiclesCollection       = "vehicles"
	auditLogsCollection      = "audit_logs"
)
