package main

// General API documentation for swaggo. Run `swag init -g cmd/irisd/docs.go` to generate docs.
//
// @title           irisd API
// @version         1.0
// @description     Iris species classification over HTTP.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http

