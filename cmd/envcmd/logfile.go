// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package envcmd

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/lumberjack/v2"

	"github.com/rdecli/rde/rdeclient"
)

const logFileWriterName = "rde-log-file"

// Rotation settings of the log file.
const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
)

// AttachLogFile sends the log to the file named in the configuration, if
// there is one. The returned function detaches the file again.
func AttachLogFile(store rdeclient.ConfigGetter) (func(), error) {
	nothing := func() {}
	config, err := store.Config()
	if err != nil {
		return nothing, errors.Trace(err)
	}
	if config.LogFile == "" {
		return nothing, nil
	}
	file := &lumberjack.Logger{
		Filename:   config.LogFile,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		Compress:   true,
	}
	writer := loggo.NewSimpleWriter(file, loggo.DefaultFormatter)
	if err := loggo.RegisterWriter(logFileWriterName, writer); err != nil {
		_ = file.Close()
		return nothing, errors.Annotatef(err, "logging to %s", config.LogFile)
	}
	return func() {
		_, _ = loggo.RemoveWriter(logFileWriterName)
		if err := file.Close(); err != nil {
			logger.Debugf("closing %s: %v", config.LogFile, err)
		}
	}, nil
}
