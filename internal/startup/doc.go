// Package startup loads and validates configuration and provides the
// structured startup/shutdown logging used by both binaries.
//
// Configuration comes from environment variables, with an optional
// .env file loaded first via godotenv.
package startup
