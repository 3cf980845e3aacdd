// Package autoproxy wraps eligible components in transparent proxies as
// they move through the container lifecycle.
//
// Creator plugs into the lifecycle hook chain. For each candidate it
// consults a Selector for the behaviors that apply, excludes proxying
// machinery (declared through RoleCarrier) and skip-listed components,
// and caches every decision so a component is evaluated once. Components
// exposed early to break construction cycles are wrapped at exposure
// time and pass through the late hook unchanged, preserving reference
// identity.
package autoproxy
