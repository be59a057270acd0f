// Package main is the entry point for the travel-app auth API.
//
// @title                       Travel App Auth API
// @version                     1.0
// @description                 Credential and session management for the travel app backend.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
