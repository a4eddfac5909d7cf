package types

// LinkState describes what currently occupies the redirected directory.
type LinkState string

const (
	// LinkAbsent means nothing exists at the redirected path.
	LinkAbsent LinkState = "absent"

	// LinkLinked means the redirected path is a symbolic link.
	LinkLinked LinkState = "linked"

	// LinkPlainDir means the redirected path is a real directory holding
	// unmanaged user data.
	LinkPlainDir LinkState = "plain"

	// LinkOther means the redirected path is occupied by something that is
	// neither a link nor a directory.
	LinkOther LinkState = "other"
)
