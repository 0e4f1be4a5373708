// Package tally provides observable state and owned periodic tasks for Go.
//
// A StateCell holds one value and notifies its subscribers on change. A Routine
// runs a func on a fixed interval and can be started and stopped at any time.
// A Counter composes both: named integer cells, an active flag, and a routine
// that follows the flag, so a view layer only binds to data and operations.
//
//	c, err := tally.New(
//		tally.WithCounter("main", 0),
//		tally.WithActive(true),
//		tally.WithInterval(time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	c.OnChange(func(s tally.Snapshot) {
//		fmt.Println("main =", s.Values["main"])
//	})
package tally

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

func (c *Counter) logErr(format string, a ...any) {
	c.log("error", LogLevelError, format, a...)
}

func (c *Counter) logWarn(format string, a ...any) {
	c.log("warn", LogLevelWarn, format, a...)
}

func (c *Counter) logInfo(format string, a ...any) {
	c.log("info", LogLevelInfo, format, a...)
}

func (c *Counter) logDebug(format string, a ...any) {
	c.log("debug", LogLevelDebug, format, a...)
}

func (c *Counter) log(lvl string, at LogLevel, format string, a ...any) {
	if c.opts.logLvl < at {
		return
	}
	c.opts.logger.Printf("[%s] tally-counter=%q msg=%q", lvl, c.id, fmt.Sprintf(format, a...))
}

func genRandID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)[:8]
}
