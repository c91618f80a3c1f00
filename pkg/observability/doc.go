/*
Package observability provides monitoring for navigation controllers and topic services.

It includes Prometheus metrics fed by domain.LifecycleHooks, structured-logging hooks,
a helper to combine hook sets, and a ports.TopicService decorator that measures every
call made to (or served by) a topic service.
*/
package observability
