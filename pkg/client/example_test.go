package client_test

import (
	"context"
	"fmt"

	"github.com/bft-labs/expopush/pkg/client"
	"github.com/bft-labs/expopush/pkg/push"
)

// Example demonstrates sending a notification and inspecting its ticket.
func Example() {
	c, err := client.New(client.WithAccessToken("my-access-token"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	msg, err := push.NewMessage("ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]").
		Title("Order shipped").
		Body("Your order is on its way").
		Sound(push.SoundDefault).
		Build()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	tickets, err := c.Send(context.Background(), msg)
	if err != nil {
		fmt.Println("send failed:", push.Classify(err))
		return
	}
	for _, t := range tickets {
		if err := t.Err(); err != nil {
			fmt.Println("rejected:", err)
			continue
		}
		fmt.Println("receipt id:", t.ID)
	}
}

// Example_invalidToken shows that bad tokens are rejected before sending.
func Example_invalidToken() {
	_, err := push.NewMessage("not-a-token").Build()
	fmt.Println(push.Classify(err))
	// Output: InvalidArgument
}
