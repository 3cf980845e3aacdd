// Package logger provides structured logging for the lifecycle container,
// built on zerolog. Loggers can be tagged with a registry instance id and a
// component name so that creation and destruction events are attributable to
// a specific registry and the component they concern.
package logger
