package internal

// Version is the application version shown by --version and sent in the
// User-Agent of HTTP requests.
const Version = "0.4.0"
