package service

import "github.com/prometheus/client_golang/prometheus"

var (
	contactSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "studio_site", Name: "contact_submissions_total", Help: "Contact form submissions by classification"},
		[]string{"result"},
	)
	mailFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "studio_site", Name: "contact_mail_failures_total", Help: "Contact emails that could not be sent"},
		[]string{"kind"},
	)
)

func init() { prometheus.MustRegister(contactSubmissions, mailFailures) }
