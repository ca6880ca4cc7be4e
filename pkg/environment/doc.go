// Package environment carries the deployment environment (NODE_ENV) through
// request contexts so that handlers and middleware can switch behavior, for
// example the CORS origin policy, without threading configuration by hand.
package environment
