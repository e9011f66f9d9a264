package main

import "github.com/sirupsen/logrus"

// logrusSink implements diag.Sink on top of a logrus.Logger, emitting one
// structured line per phase transition or error.
type logrusSink struct {
	log *logrus.Logger
}

func newLogrusSink() *logrusSink {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &logrusSink{log: log}
}

func (s *logrusSink) Event(phase string, err error, detail string) {
	entry := s.log.WithField("phase", phase)
	if detail != "" {
		entry = entry.WithField("detail", detail)
	}
	if err != nil {
		entry.WithError(err).Error("ext2load")
		return
	}
	entry.Info("ext2load")
}
