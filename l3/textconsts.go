package l3

// Trivial string constants the logger needs for formatting. The upstream
// golly/textutils package (which defines these same constants) isn't
// available here, so they are inlined rather than pulled in as a separate
// package.
const (
	emptyStr       = ""
	whiteSpaceStr  = " "
	forwardSlashStr = "/"
	periodStr      = "."
	colonStr       = ":"
)
