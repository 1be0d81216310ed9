package logger

import (
	"github.com/sirupsen/logrus"
)

// Log доступен сразу, чтобы пакеты и тесты могли логировать до Init.
var Log = logrus.New()

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON для production, text для development
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// Op возвращает запись с именем операции, общую для use case.
func Op(name string) *logrus.Entry {
	return Log.WithField("op", name)
}
