package link

const (
	msgDeclined       = "Nothing was changed."
	msgScriptsSkipped = "Some actions failed, setup scripts were not run. Use --force to run them anyway."
	msgUnresolved     = "%d unresolved conflicts, nothing was changed"
)
