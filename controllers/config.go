package controllers

import (
	"time"

	"banku/config"
	"banku/mailer"
)

var conf config.Configuration

var mailSender mailer.Sender

// timeNow é trocável em teste para controlar expiração de tokens.
var timeNow = time.Now

func SetConfig(configuration config.Configuration) {
	conf = configuration
}

func SetMailSender(sender mailer.Sender) {
	mailSender = sender
}
