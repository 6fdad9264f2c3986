/*
Package events provides an in-memory event broker for transaction auditing.

Node communication and the library environment publish what they do: every
request sent to a node, every response, retries over the next address of a
node, and CIB or corosync.conf pushes. The CLI subscribes in debug mode and
logs the stream.

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	go func() {
		for event := range sub {
			logger.Debug().Str("type", string(event.Type)).Msg(event.Message)
		}
	}()

Publishing never blocks the publisher. Events that overflow the queue are
dropped and counted, subscribers with a full buffer miss the event. A nil
*Broker accepts and discards events, so components can treat the broker as
optional.

# Event Types

	node.request.started     request sent to a node address
	node.response            response (or connection failure) received
	node.retrying            retrying a request through the next address
	node.no_more_addresses   all addresses of a node failed
	cib.pushed               CIB committed (live or file)
	cib.unchanged            CIB push skipped, nothing changed
	corosync.pushed          corosync.conf distributed
*/
package events
