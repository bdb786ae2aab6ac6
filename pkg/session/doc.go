/*
Package session coordinates exclusive access to stored projects.

A Manager wraps a ProjectStore with a reference-counted lock table so two
goroutines never write the same project at once, and optionally with a
distributed locker so two replicas never do either. Long edit sessions
hold a Lease (Checkout, Commit, Release); one-shot operations use the
locked Save/Load/Delete helpers.
*/
package session
