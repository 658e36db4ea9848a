package app

import (
	"github.com/sscott1990/contests-unlimited-sub000/config"
	"github.com/sscott1990/contests-unlimited-sub000/payment"
	"github.com/sscott1990/contests-unlimited-sub000/trivia"
	"github.com/sscott1990/contests-unlimited-sub000/workflow"
)

type App struct {
	*workflow.Workflow
	Gateway payment.Gateway
	Trivia  *trivia.Bank
	config.Config
}
