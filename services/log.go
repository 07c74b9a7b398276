package services

import "github.com/sirupsen/logrus"

var pkgLogger *logrus.Logger

// SetLogger installs the application logger for the services package.
// Defaults to the logrus standard logger when never called.
func SetLogger(l *logrus.Logger) {
	pkgLogger = l
}

func logger() *logrus.Logger {
	if pkgLogger != nil {
		return pkgLogger
	}
	return logrus.StandardLogger()
}
