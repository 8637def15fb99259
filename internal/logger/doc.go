// Package logger wraps zap with:
//   - a global sugared logger using a console encoder,
//   - optional rotating file output through lumberjack,
//   - context helpers (ToContext/FromContext/WithKV),
//   - level parsing.
//
// Services take a context and pull the logger from it so that fields such as
// the session id follow every line.
package logger
