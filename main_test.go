package main

import (
	"errors"
	"fmt"
	"testing"

	"fjacquet/daily-budget/cmd/root"
	"fjacquet/daily-budget/internal/budgeterror"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(budgeterror.NewInvalidInput("income", "x", "not an amount")))
	assert.Equal(t, 2, exitCode(fmt.Errorf("wrapped: %w", budgeterror.NewBudgetInfeasible(decimal.NewFromInt(1), decimal.NewFromInt(2), decimal.Zero))))
	assert.Equal(t, 1, exitCode(errors.New("disk full")))
}

func TestConfigureLogLevelDirectly(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, logrus.WarnLevel, configureLogLevelDirectly())

	t.Setenv("LOG_LEVEL", "chatty")
	assert.Equal(t, logrus.InfoLevel, configureLogLevelDirectly())
}

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCommands() {
		names[c] = true
	}
	for _, want := range []string{"redistribute", "classify", "history", "batch", "serve"} {
		assert.True(t, names[want], want)
	}
}

func rootCommands() []string {
	var names []string
	for _, c := range root.Cmd.Commands() {
		names = append(names, c.Name())
	}
	return names
}
