package driven

// Notifier is the notification collaborator. Calls are fire-and-forget;
// rate limiting of notifications is the caller's concern, not the
// notifier's.
type Notifier interface {
	// NotifyNeedsReauthentication tells the user that the stored credential
	// is unusable and a new sign-in is required.
	NotifyNeedsReauthentication(account string)
}
