// Package env loads dotenv files for harkit.
//
// Files are parsed into plain maps with godotenv. Nothing is exported to the
// OS environment, so loading the same file twice, or two files with
// overlapping keys, has no side effects on the process.
package env
