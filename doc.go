/*
Package observable allows to set struct properties by name and notify
subscribers about the change.

Concept

An observable is a struct that embeds Object:

    type Person struct {
        observable.Object
        Name string
    }

Object provides subscription methods and is used by Set functions. No
setters have to be written for properties. Any exported field, including
promoted fields of embedded structs, can be set with its name:

    p := &Person{Name: "A"}
    p.Subscribe(observable.Handler(func(sender interface{}, property string) error {
        fmt.Println(property, sender.(*Person).Name)
        return nil
    }))
    err := observable.Set(p, "Name", "B")

Set assigns the value first and only then notifies subscribers, so they
always observe the new value.

Mutators

Properties are set by mutators. A mutator is built on first use for the
pair of struct type and property name and kept in a mutator.Registry. All
instances of the type share it. By default mutator.Default is used. Another
registry can be provided before the object is used:

    p.Use(observable.WithRegistry(r))

Mutators for computed properties or hot paths can be defined without
reflection with mutator.Define.

Errors

Set returns *PropertyNotFoundError if property doesn't exist or is not
writable, and *TypeMismatchError if value cannot be assigned to it. In both
cases the object is not changed and subscribers are not called.

Subscribers are called in subscription order. If any of them fails or
panics, the rest are still called and Set returns *SubscriberError. The
value stays assigned.
*/
package observable
