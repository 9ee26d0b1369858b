package main

//go:generate swag init -g cmd/monitor/main.go -o docs

// @title           Moneyline Consensus API
// @version         0.1.0
// @description     Sportsbook consensus, prediction market books, and edge comparison.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
