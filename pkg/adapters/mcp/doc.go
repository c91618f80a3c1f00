// Package mcp exposes a navigation controller to AI agents through the Model Context Protocol.
//
// Tools: explore_topic, select_item, reset_session and get_state. The current view is
// also readable as the explorer://state resource.
package mcp
