// Package reactive implements the Reactive Boundary Adapters that bridge
// the pipeline's cooperative pump with external reactive transports: a
// Source that subscribes to an external publisher with windowed demand,
// and a Sink that implements the subscription contract toward an external
// subscriber.
package reactive

// Window is the initial and target outstanding-chunk demand a Source
// keeps open against its publisher.
const Window = 256

// RefillThreshold is the outstanding-window floor below which a Source
// tops its demand back up to Window.
const RefillThreshold = Window / 2
