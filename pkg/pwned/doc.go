// Package pwned checks passwords against the Pwned Passwords breach corpus
// using its k-anonymity range API.
//
// The password is hashed locally with SHA-1 (Sum). Only the first five hex
// characters of the digest are sent:
//
//	GET https://api.pwnedpasswords.com/range/{PREFIX}
//
// and the response lists every known suffix for that prefix as
// "SUFFIX:COUNT" lines. Contains then compares the local suffix against the
// list, so neither the password nor its full hash leaves the process.
//
// # Usage
//
//	client, err := pwned.NewClient(pwned.WithTimeout(5 * time.Second))
//	if err != nil {
//	    return err
//	}
//
//	d := pwned.Sum(password)
//	records, err := client.Range(ctx, d.Prefix())
//	if err != nil {
//	    return err // lookup failed, no verdict
//	}
//	breached := pwned.Contains(records, d.Suffix())
//
// # Error Handling
//
// Every error returned by Range wraps ErrLookupFailed together with a more
// specific kind (ErrTimeout, ErrTransport, ErrUnexpectedStatus,
// ErrMalformedResponse, ErrInvalidPrefix). A failed lookup never means the
// password is breached.
//
// Transport errors, timeouts, 408, 425, 429 and 5xx responses are retried
// using the configured BackoffStrategy. Other statuses and unparsable
// bodies fail immediately.
package pwned
