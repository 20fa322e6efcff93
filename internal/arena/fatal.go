package arena

import (
	"fmt"
	"log"

	apkg "github.com/kvassay/heaparena/pkg/errors"
)

// fatal logs a corruption diagnosis via the standard log package and then
// panics with it wrapped as an ArenaError{Code: ErrCodeCorruption}. Unlike
// OutOfMemory, corruption is never a recoverable return value: the caller
// either runs the arena inside a supervised goroutine and recovers the
// panic (still able to identify it via errors.As), or, in a bare main,
// the process crashes - both paths get the message on stderr first via
// log, not just buried in a panic value.
func fatal(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	log.Printf("arena: fatal: %s", formatted)
	panic(apkg.NewCorruptionError(formatted))
}
