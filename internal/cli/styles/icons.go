package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconGlobe     = "\uf0ac"
	IconVersion   = "\uf02b"
	IconGitBranch = "\ue725"
	IconCalendar  = "\uf073"
	IconGithub    = "\uf09b"
	IconGo        = "\ue627"
	IconArrow     = "\uf061"

	IconCheck   = "\uf00c"
	IconX       = "\uf00d"
	IconWarning = "\uf071"
	IconInfo    = "\uf05a"

	IconTrash  = "\uf1f8"
	IconFolder = "\uf07b"
	IconImage  = "\uf1c5"
	IconShield = "\uf132"
	IconConfig = "\ue615"

	IconActive    = "\uf111" // filled circle
	IconSleep     = "\uf186" // moon
	IconMuted     = "\uf6a9" // volume mute
	IconBellSlash = "\uf1f6"
)
