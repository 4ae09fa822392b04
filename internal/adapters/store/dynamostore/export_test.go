package dynamostore

const (
	CondAbsent  = condAbsent
	CondVersion = condVersion
	CondOwner   = condOwner
	FilterUsers = filterUsers
)
