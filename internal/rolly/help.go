package rolly

// HelpText returns the usage message shown for "/roll help".
func HelpText() string {
	return `Roll "any" reasonable dice request:

* *x*d*y* or *x*D*y* rolls a *y* sided die *x* times; *x* defaults to 1
* *y* on its own rolls a single *y* sided die
* *x*d% is the same as *x*d100
* modifiers: *x*d*y*+*z*, *x*d*y*-*z* (the result is never below 1)
* *x*d*y*/*z* divides the result by *z*, rounding down
* *x*d*y*<1 discards the lowest roll (so 4d6<1 gives a value between 3 and 18)

Nerd combos:

* dnd or d&d - same as 3d6 six times (standard D&D or Pathfinder)
* dnd+ or d&d+ - same as 4d6<1 six times (common house rule)
* open - roll d%; if it's 95 or more, roll again and add, repeating if necessary

Up to 10 rolls per request, up to 100 dice per roll.`
}
