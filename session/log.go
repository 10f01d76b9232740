package session

import (
	"voiceorb/misc"
)

var (
	warnLogger = misc.WarnLogger
	infoLogger = misc.InfoLogger
)
