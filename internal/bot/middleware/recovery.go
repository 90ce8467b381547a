package middleware

import (
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// RecoverFromPanic гасит панику одного обработчика апдейта, чтобы она
// не уронила весь polling. Scope — вид апдейта ("message"/"callback"),
// userID помогает найти виновный диалог в логах.
func RecoverFromPanic(scope string, userID int64) {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"scope":   scope,
			"user_id": userID,
			"panic":   fmt.Sprintf("%v", r),
			"stack":   string(debug.Stack()),
		}).Error("ПАНИКА в обработчике — восстановлено")
	}
}
