// Package push contains the message model and wire protocol for the Expo
// push notification service.
//
// The package has no network or logging dependencies. It validates push
// tokens, builds immutable messages, splits message lists into request-sized
// chunks, and decodes the per-item tickets and receipts returned by the
// service.
//
// # Building messages
//
// Messages are assembled with a [Builder] and finalized with [Builder.Build],
// which validates every recipient token before returning:
//
//	msg, err := push.NewMessage("ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]").
//	    Title("Hello").
//	    Body("World").
//	    Sound(push.SoundDefault).
//	    Build()
//	if err != nil {
//	    return err // wraps push.ErrInvalidArgument
//	}
//
// # Chunking
//
// The service accepts at most [MaxMessagesPerRequest] messages per send call
// and [MaxReceiptIDsPerRequest] ids per receipt query:
//
//	for _, chunk := range push.Chunk(messages, push.MaxMessagesPerRequest) {
//	    // send chunk...
//	}
//
// # Errors
//
// Every failure produced by this module (and by the client built on top of it)
// wraps one of [ErrInvalidArgument], [ErrSerialize], [ErrGzip],
// [ErrDeserialize] or [ErrServer]. Use errors.Is or [Classify] to inspect them.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package push
