package internal

import (
	"flag"
	"fmt"
	"os"
)

const (
	RunAddress  = "RUN_ADDRESS"
	DatabaseURI = "DATABASE_URI"
	AMQPURI     = "AMQP_URI"
	AuthSecret  = "AUTH_SECRET"
	TaxRate     = "TAX_RATE"
)

const (
	defaultRunAddress = "localhost:8080"
	defaultAuthSecret = "secret" //todo refuse default secret outside local runs
	defaultTaxRate    = "0.08"
)

const (
	host     = "localhost"
	port     = 5432
	user     = "postgres"
	password = "12345"
	database = "plateful"
)

type config struct {
	RunAddress  string
	DatabaseURI string
	AMQPURI     string
	AuthSecret  string
	TaxRate     string
}

func NewConfig() *config {
	c := new(config)

	defaultConn := fmt.Sprintf("host=%s port=%d user=%s "+
		"password=%s database=%s sslmode=disable",
		host, port, user, password, database)

	flag.StringVar(&c.RunAddress, "a", setEnvOrDefault(RunAddress, defaultRunAddress), "host to listen on")
	flag.StringVar(&c.DatabaseURI, "d", setEnvOrDefault(DatabaseURI, defaultConn), "postgres connection path")
	flag.StringVar(&c.AMQPURI, "q", setEnvOrDefault(AMQPURI, ""), "rabbitmq address, empty disables notifications")
	flag.StringVar(&c.AuthSecret, "s", setEnvOrDefault(AuthSecret, defaultAuthSecret), "JWT signing secret")
	flag.StringVar(&c.TaxRate, "t", setEnvOrDefault(TaxRate, defaultTaxRate), "sales tax rate, e.g. 0.08")

	flag.Parse()
	return c
}

func setEnvOrDefault(env, def string) string {
	res, e := os.LookupEnv(env)
	if !e {
		res = def
	}
	return res
}
