// Package credential supplies the access token sent as a Bearer credential
// on every push request.
//
// A Source is consulted once per exchange, so rotating the token never
// requires rebuilding the client. Static serves a fixed token. FileSource
// reads the token from a file and reloads it when the file changes on disk:
//
//	src, err := credential.NewFileSource("/etc/expopush/token", credential.FileConfig{})
//	if err != nil {
//	    return err
//	}
//	if err := src.Start(ctx); err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	c, err := client.New(client.WithCredentialSource(src))
package credential
