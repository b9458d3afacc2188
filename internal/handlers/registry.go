package handlers

// AppHandlers holds every HTTP handler group the router registers.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	NotificationHandler *NotificationHandler
}
