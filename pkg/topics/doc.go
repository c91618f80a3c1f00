/*
Package topics implements the topic service: the collaborator that decides which
sub-topics to offer for a topic and for each selection.

Menus come from a Generator. The default Catalog reproduces a fixed keyword table
(selections mentioning "history", "concepts" or "applications" get dedicated submenus,
anything else gets a generic one). A Catalog can also be loaded from YAML and hot-reloaded
with a Reloader.

Service keeps one domain.Exploration per issued session ID in a ports.SessionStore,
through a session.Manager, so several replicas can share a Redis store.
*/
package topics
